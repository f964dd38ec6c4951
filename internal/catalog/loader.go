package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/YJlang/gacha/internal/model"
)

const (
	utf8BOM      = "\ufeff"
	maxLineBytes = 1 << 20
)

var errUnbalancedQuote = errors.New("unbalanced quote")

// ImageURL derives a stable image reference for a destination id.
func ImageURL(id int64) string {
	return fmt.Sprintf("https://picsum.photos/id/%d/800/600", id%1000+1)
}

// Loader parses the destination dataset into records.
type Loader struct {
	source   Source
	columns  Columns
	encoding string
	log      logrus.FieldLogger
}

// NewLoader creates a Loader. Encoding is UTF-8 unless set to EUC-KR or CP949.
func NewLoader(source Source, columns Columns, encoding string, log logrus.FieldLogger) *Loader {
	return &Loader{
		source:   source,
		columns:  columns,
		encoding: encoding,
		log:      log,
	}
}

// Load reads every row of the dataset. Rows that cannot be parsed or lack a name
// are skipped; ids are assigned to kept rows in order starting at 1.
func (l *Loader) Load(ctx context.Context) ([]model.Destination, error) {
	log := l.log.WithField("source", l.source.String())
	log.Info("Reading catalog dataset")

	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	defer rc.Close()

	scanner := bufio.NewScanner(transform.NewReader(rc, l.decoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		err := scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrDatasetUnavailable, err)
	}
	header, err := parseLine(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrDatasetUnavailable, err)
	}
	index := headerIndex(header)

	var destinations []model.Destination
	skipped := 0
	line := 1
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		// Each physical line is one row, so a broken row cannot swallow its neighbours
		record, err := parseLine(text)
		if err != nil {
			skipped++
			log.WithField("line", line).WithError(err).Warn("Skipping malformed catalog row")
			continue
		}

		row := rowReader{index: index, record: record}
		dest, ok := l.parseRow(row, int64(len(destinations)+1))
		if !ok {
			skipped++
			log.WithField("line", line).Warn("Skipping catalog row without a name")
			continue
		}
		destinations = append(destinations, dest)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	log.WithFields(logrus.Fields{
		"records": len(destinations),
		"skipped": skipped,
	}).Info("Successfully loaded catalog dataset")

	return destinations, nil
}

// parseLine splits a single CSV line. Unbalanced quotes are rejected because the
// csv package accepts a quote left open at end of input.
func parseLine(text string) ([]string, error) {
	text = strings.TrimSuffix(text, "\r")
	if strings.Count(text, `"`)%2 != 0 {
		return nil, errUnbalancedQuote
	}
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.Read()
}

func (l *Loader) decoder() transform.Transformer {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	switch strings.ToUpper(strings.TrimSpace(l.encoding)) {
	case "EUC-KR", "EUCKR", "CP949", "MS949":
		fallback = korean.EUCKR.NewDecoder()
	}
	// BOMOverride strips a UTF-8 BOM or switches to UTF-16 when one is present
	return unicode.BOMOverride(fallback)
}

func (l *Loader) parseRow(row rowReader, id int64) (model.Destination, bool) {
	name := row.get(l.columns.Name)
	if name == "" {
		return model.Destination{}, false
	}

	// Road-based address first, lot-based as fallback
	address := row.get(l.columns.RoadAddress)
	if address == "" {
		address = row.get(l.columns.LotAddress)
	}

	return model.Destination{
		ID:            id,
		Name:          name,
		Region:        row.get(l.columns.Region),
		SubRegion:     row.get(l.columns.SubRegion),
		Address:       address,
		Phone:         row.get(l.columns.Phone),
		Latitude:      parseFloat(row.get(l.columns.Latitude)),
		Longitude:     parseFloat(row.get(l.columns.Longitude)),
		ProgramName:   row.get(l.columns.ProgramName),
		ProgramDetail: row.get(l.columns.ProgramDetail),
		ImageURL:      ImageURL(id),
	}, true
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

type rowReader struct {
	index  map[string]int
	record []string
}

// get returns the trimmed value of a column, or "" when the column or cell is missing.
func (r rowReader) get(column string) string {
	if column == "" {
		return ""
	}
	i, ok := r.index[strings.ToLower(strings.TrimSpace(column))]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
