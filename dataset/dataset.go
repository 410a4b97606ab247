// Package dataset loads the historical measurement table and prepares it for
// forecasting: timestamp parsing, chronological ordering, column selection,
// and gap repair.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"time"
)

const (
	// DateColumn holds the measurement timestamp.
	DateColumn = "date"
	// GroupColumn is the optional categorical label used for per-group
	// score breakdowns.
	GroupColumn = "town"

	Irradiance  = "irradiance"
	Temperature = "temperature"
	Humidity    = "humidity"
	WindSpeed   = "wind_speed"
)

// ForecastColumns are the numeric variables the pipeline works with, in the
// order they are reported.
var ForecastColumns = []string{Irradiance, Temperature, Humidity, WindSpeed}

var (
	ErrMissingColumn   = errors.New("required column missing from header")
	ErrUnparseableDate = errors.New("unparseable date value")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrNoRows          = errors.New("dataset has no rows")
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Table is a chronologically ordered set of measurements. The timestamp slice
// and every column have the same length. Groups is nil when the source file
// has no grouping column.
type Table struct {
	T       []time.Time
	Columns map[string][]float64
	Groups  []string
}

// Load reads a delimited measurement table from disk. A missing or unreadable
// file is the only error that should abort an entire run.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset %s, %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV content into a Table, sorted by timestamp ascending with
// ties kept in original row order. Unparseable dates are fatal input errors.
// Empty or non-numeric measurement cells become NaN for the fill stage.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	dateIdx, exists := colIdx[DateColumn]
	if !exists {
		return nil, fmt.Errorf("%s, %w", DateColumn, ErrMissingColumn)
	}
	for _, name := range ForecastColumns {
		if _, exists := colIdx[name]; !exists {
			return nil, fmt.Errorf("%s, %w", name, ErrMissingColumn)
		}
	}
	groupIdx, hasGroups := colIdx[GroupColumn]

	tbl := &Table{
		Columns: make(map[string][]float64, len(ForecastColumns)),
	}
	for _, name := range ForecastColumns {
		tbl.Columns[name] = []float64{}
	}
	if hasGroups {
		tbl.Groups = []string{}
	}

	row := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", row, err)
		}

		ts, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		tbl.T = append(tbl.T, ts)

		for _, name := range ForecastColumns {
			tbl.Columns[name] = append(tbl.Columns[name], parseValue(record[colIdx[name]]))
		}
		if hasGroups {
			tbl.Groups = append(tbl.Groups, record[groupIdx])
		}
		row++
	}
	if len(tbl.T) == 0 {
		return nil, ErrNoRows
	}

	tbl.sortByTime()
	return tbl, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparseableDate)
}

func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (tbl *Table) sortByTime() {
	idx := make([]int, len(tbl.T))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return tbl.T[idx[i]].Before(tbl.T[idx[j]])
	})

	t := make([]time.Time, len(tbl.T))
	for i, p := range idx {
		t[i] = tbl.T[p]
	}
	tbl.T = t

	for name, col := range tbl.Columns {
		sorted := make([]float64, len(col))
		for i, p := range idx {
			sorted[i] = col[p]
		}
		tbl.Columns[name] = sorted
	}
	if tbl.Groups != nil {
		groups := make([]string, len(tbl.Groups))
		for i, p := range idx {
			groups[i] = tbl.Groups[p]
		}
		tbl.Groups = groups
	}
}

// Len returns the number of rows.
func (tbl *Table) Len() int {
	return len(tbl.T)
}

// Column returns the values for one of the forecast variables.
func (tbl *Table) Column(name string) ([]float64, error) {
	col, exists := tbl.Columns[name]
	if !exists {
		return nil, fmt.Errorf("%s, %w", name, ErrUnknownColumn)
	}
	return col, nil
}

// MissingCount reports the number of NaN cells across all forecast columns.
func (tbl *Table) MissingCount() int {
	var cnt int
	for _, col := range tbl.Columns {
		for _, v := range col {
			if math.IsNaN(v) {
				cnt++
			}
		}
	}
	return cnt
}

// FillGaps repairs missing values in every forecast column by carrying the
// last valid value forward and then the next valid value backward to cover
// leading gaps. Returns the number of cells filled. A column with no valid
// value at all stays NaN and will surface downstream as a numeric error.
func (tbl *Table) FillGaps() int {
	var filled int
	for _, col := range tbl.Columns {
		last := math.NaN()
		for i := 0; i < len(col); i++ {
			if math.IsNaN(col[i]) {
				if !math.IsNaN(last) {
					col[i] = last
					filled++
				}
				continue
			}
			last = col[i]
		}

		next := math.NaN()
		for i := len(col) - 1; i >= 0; i-- {
			if math.IsNaN(col[i]) {
				if !math.IsNaN(next) {
					col[i] = next
					filled++
				}
				continue
			}
			next = col[i]
		}
	}
	return filled
}

// Tail returns a table holding the trailing n rows. A non-positive n or one
// covering the whole table returns the receiver unchanged.
func (tbl *Table) Tail(n int) *Table {
	if n <= 0 || n >= tbl.Len() {
		return tbl
	}
	start := tbl.Len() - n

	res := &Table{
		T:       tbl.T[start:],
		Columns: make(map[string][]float64, len(tbl.Columns)),
	}
	for name, col := range tbl.Columns {
		res.Columns[name] = col[start:]
	}
	if tbl.Groups != nil {
		res.Groups = tbl.Groups[start:]
	}
	return res
}
