package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"golang.org/x/text/encoding/charmap"
)

// naTokens are the cell values read as missing, besides the empty cell.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// utf8BOMAsLatin1 is a UTF-8 byte order mark after Latin-1 decoding.
const utf8BOMAsLatin1 = "\u00ef\u00bb\u00bf"

func isMissing(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := naTokens[cell]
	return ok
}

// table is a decoded CSV file: a header and the data rows that follow it.
type table struct {
	header  map[string]int
	columns int
	rows    [][]string
}

func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty csv: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	t := &table{header: make(map[string]int, len(header)), columns: len(header)}
	for i, name := range header {
		name = strings.TrimPrefix(name, utf8BOMAsLatin1)
		if _, dup := t.header[name]; !dup {
			t.header[name] = i
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (t *table) columnIndexes(names ...string) ([]int, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		idx, ok := t.header[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		indexes[i] = idx
	}
	return indexes, nil
}

// overlong reports a row carrying more fields than the header declares.
func (t *table) overlong(row []string) bool {
	return len(row) > t.columns
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseCases reads the cases CSV. A row is kept only when every cell of the
// row is present, not just the four series columns. Rows with more fields
// than the header are malformed and dropped too. It returns the kept
// records and the number of dropped rows.
func ParseCases(r io.Reader) ([]domain.CaseRecord, int, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, 0, err
	}

	cols, err := t.columnIndexes(
		string(domain.SeriesNewReleased),
		string(domain.SeriesNewDeceased),
		string(domain.SeriesAccReleased),
		string(domain.SeriesAccDeceased),
	)
	if err != nil {
		return nil, 0, err
	}

	records := make([]domain.CaseRecord, 0, len(t.rows))
	dropped := 0
rows:
	for i, row := range t.rows {
		if t.overlong(row) {
			dropped++
			continue
		}
		for c := 0; c < t.columns; c++ {
			if isMissing(cell(row, c)) {
				dropped++
				continue rows
			}
		}

		var values [4]float64
		for k, c := range cols {
			v, ok := parseNumber(row[c])
			if !ok {
				dropped++
				continue rows
			}
			values[k] = v
		}

		records = append(records, domain.CaseRecord{
			Index:       i,
			NewReleased: values[0],
			NewDeceased: values[1],
			AccReleased: values[2],
			AccDeceased: values[3],
		})
	}
	return records, dropped, nil
}

// ParsePatients reads the patient CSV keeping gender, age and current_state.
// Rows missing any of them, with an age that is not a finite whole number, or
// with more fields than the header are dropped.
func ParsePatients(r io.Reader) ([]domain.PatientRecord, int, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, 0, err
	}

	cols, err := t.columnIndexes("gender", "age", "current_state")
	if err != nil {
		return nil, 0, err
	}
	genderCol, ageCol, stateCol := cols[0], cols[1], cols[2]

	records := make([]domain.PatientRecord, 0, len(t.rows))
	dropped := 0
	for i, row := range t.rows {
		if t.overlong(row) {
			dropped++
			continue
		}
		gender, age, state := cell(row, genderCol), cell(row, ageCol), cell(row, stateCol)
		if isMissing(gender) || isMissing(age) || isMissing(state) {
			dropped++
			continue
		}

		v, ok := parseNumber(age)
		if !ok || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			dropped++
			continue
		}

		records = append(records, domain.PatientRecord{
			Index:        i,
			Gender:       gender,
			Age:          int(v),
			CurrentState: state,
		})
	}
	return records, dropped, nil
}
