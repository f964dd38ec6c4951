package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Columns maps destination fields to dataset header names.
type Columns struct {
	Name          string `yaml:"name"`
	Region        string `yaml:"region"`
	SubRegion     string `yaml:"sub_region"`
	RoadAddress   string `yaml:"road_address"`
	LotAddress    string `yaml:"lot_address"`
	Phone         string `yaml:"phone"`
	Latitude      string `yaml:"latitude"`
	Longitude     string `yaml:"longitude"`
	ProgramName   string `yaml:"program_name"`
	ProgramDetail string `yaml:"program_detail"`
}

// DefaultColumns returns the headers of the national rural experience village dataset.
func DefaultColumns() Columns {
	return Columns{
		Name:          "체험마을명",
		Region:        "시도명",
		SubRegion:     "시군구명",
		RoadAddress:   "소재지도로명주소",
		LotAddress:    "소재지지번주소",
		Phone:         "대표전화번호",
		Latitude:      "위도",
		Longitude:     "경도",
		ProgramName:   "체험프로그램명",
		ProgramDetail: "체험프로그램구분",
	}
}

// LoadColumns reads a YAML column mapping and fills unset fields from DefaultColumns.
// An empty path returns the defaults.
func LoadColumns(path string) (Columns, error) {
	cols := DefaultColumns()
	if path == "" {
		return cols, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Columns{}, fmt.Errorf("failed to read column mapping: %w", err)
	}

	// Unmarshal over the defaults so omitted keys keep their default header
	if err := yaml.Unmarshal(data, &cols); err != nil {
		return Columns{}, fmt.Errorf("failed to parse column mapping: %w", err)
	}
	return cols, nil
}
