package model

// Destination is one selectable catalog entry loaded from the source dataset.
// Values are immutable once loaded; a reload replaces the whole set.
type Destination struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Region        string   `json:"region"`
	SubRegion     string   `json:"subRegion"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ProgramName   string   `json:"programName"`
	ProgramDetail string   `json:"programDetail"`
	ImageURL      string   `json:"imageUrl"`
}
