package domain

import (
	"math"
	"strconv"
	"strings"
)

// MonthCount is the number of positions on the ring.
const MonthCount = 12

// Month is one calendar position on the ring.
type Month struct {
	Label     string  `json:"label"`
	Angle     float64 `json:"angle"`
	NextIndex int     `json:"next_index"`
	NextAngle float64 `json:"next_angle"`
}

// Observation is a single monthly anomaly sample.
type Observation struct {
	Year       int     `json:"year"`
	MonthIndex int     `json:"month_index"`
	Value      float64 `json:"value"`
}

// Series is the normalized month ring plus the chronologically ordered
// observations. A Series is not modified after construction; callers must
// not write through the Observations slice.
type Series struct {
	Months       [MonthCount]Month `json:"months"`
	Observations []Observation     `json:"observations"`
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Observations) }

// SourceOptions controls how raw source text becomes a Series.
type SourceOptions struct {
	// Delimiter separates fields. Zero means DefaultDelimiter.
	Delimiter rune
	// SkipRows drops leading rows (such as the GISTEMP title line) before
	// the header row is read.
	SkipRows int
}

// ParseSeries parses raw source text and normalizes it into a Series.
func ParseSeries(text string, opts SourceOptions) Series {
	return Normalize(SkipRows(ParseDelimited(text, opts.Delimiter), opts.SkipRows))
}

// SkipRows drops the first n rows of table. A negative n drops nothing; an n
// at or past the end leaves no rows.
func SkipRows(table [][]string, n int) [][]string {
	if n <= 0 {
		return table
	}
	if n >= len(table) {
		return nil
	}
	return table[n:]
}

// MonthAngle returns the ring angle of month i: 2π·i/12 − π/2.
func MonthAngle(i int) float64 {
	return 2*math.Pi*float64(i)/MonthCount - math.Pi/2
}

// NewMonths builds the closed 12-month ring from header labels. Labels beyond
// the slice are left empty.
func NewMonths(labels []string) [MonthCount]Month {
	var months [MonthCount]Month
	for i := range months {
		next := (i + 1) % MonthCount
		months[i] = Month{
			Angle:     MonthAngle(i),
			NextIndex: next,
			NextAngle: MonthAngle(next),
		}
		if i < len(labels) {
			months[i].Label = labels[i]
		}
	}
	return months
}

// Normalize converts a parsed table into a Series. Row 0 is the header and
// its cells 1..12 label the months. Every following row contributes one
// observation per month cell that holds a finite, non-zero number; rows
// without a year are skipped. Nothing is reported for dropped cells or rows.
func Normalize(table [][]string) Series {
	var labels []string
	if len(table) > 0 && len(table[0]) > 1 {
		labels = table[0][1:]
	}

	series := Series{Months: NewMonths(labels)}
	if len(table) < 2 {
		return series
	}

	observations := make([]Observation, 0, (len(table)-1)*MonthCount)
	for _, row := range table[1:] {
		observations = appendRow(observations, row)
	}
	series.Observations = observations
	return series
}

// appendRow appends the valid observations of a single year row.
func appendRow(dst []Observation, row []string) []Observation {
	if len(row) == 0 {
		return dst
	}
	year, ok := ParseYear(row[0])
	if !ok {
		return dst
	}

	cells := row[1:]
	if len(cells) > MonthCount {
		cells = cells[:MonthCount]
	}
	for i, cell := range cells {
		value, ok := parseAnomaly(cell)
		if !ok {
			continue
		}
		dst = append(dst, Observation{Year: year, MonthIndex: i, Value: value})
	}
	return dst
}

// ParseYear parses a year cell the way Normalize does. Empty and
// non-integer cells are rejected, which makes Normalize skip the row.
func ParseYear(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	year, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return year, true
}

// parseAnomaly parses a month cell. Zero counts as missing; see the package
// documentation.
func parseAnomaly(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v == 0 {
		return 0, false
	}
	return v, true
}
