// Command validate performs structural checks on a GISTEMP-style anomaly
// table: the header must label twelve months, year rows must parse, and at
// least one observation must survive normalization. It prints row and
// observation counts and exits non-zero on failure.
//
// Usage:
//
//	go run ./cmd/validate -source data/globalMeans.csv -skip-rows 1
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/adapter/source"
	"github.com/couchcryptid/climate-spiral/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// report holds the counts printed after validation.
type report struct {
	rows         int
	skippedRows  int
	observations int
	droppedCells int
	firstYear    int
	lastYear     int
}

func main() {
	sourcePath := flag.String("source", "", "source file path or http(s) URL")
	skipRows := flag.Int("skip-rows", 1, "leading rows to drop before the header")
	flag.Parse()

	if *sourcePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*sourcePath, *skipRows); code != 0 {
		os.Exit(code)
	}
}

func run(sourcePath string, skipRows int) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loader := source.NewLoader(30*time.Second, slog.New(slog.DiscardHandler))
	text, err := loader.Fetch(ctx, sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Println("=== Anomaly Table Validation ===")
	fmt.Println()

	table := domain.SkipRows(domain.Parse(text), skipRows)
	phases, rep := validate(table)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-30s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d data, %d skipped\n", rep.rows, rep.skippedRows)
	fmt.Printf("Observations: %d kept, %d cells dropped\n", rep.observations, rep.droppedCells)
	if rep.observations > 0 {
		fmt.Printf("Years: %d-%d\n", rep.firstYear, rep.lastYear)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validate checks the header, the year rows and the normalized series.
func validate(table [][]string) ([]*phase, report) {
	header := &phase{name: "Header labels"}
	rows := &phase{name: "Year rows"}
	series := &phase{name: "Normalized series"}

	var rep report

	if len(table) == 0 {
		header.errorf("table is empty")
		series.errorf("no observations")
		return []*phase{header, rows, series}, rep
	}

	h := table[0]
	if len(h) < domain.MonthCount+1 {
		header.errorf("header has %d cells, want at least %d", len(h), domain.MonthCount+1)
	}
	for i := 1; i <= domain.MonthCount && i < len(h); i++ {
		if strings.TrimSpace(h[i]) == "" {
			header.errorf("month %d has no label", i)
		}
	}

	firstLine := make(map[int]int)
	for i, row := range table[1:] {
		line := i + 2 // 1-based, after the header
		rep.rows++

		year, ok := domain.ParseYear(row[0])
		if !ok {
			rep.skippedRows++
			continue
		}
		if first, dup := firstLine[year]; dup {
			rows.errorf("row %d: year %d repeated (first on row %d)", line, year, first)
		} else {
			firstLine[year] = line
		}

		cells := min(len(row)-1, domain.MonthCount)
		kept := domain.Normalize([][]string{h, row}).Len()
		rep.droppedCells += cells - kept
	}

	s := domain.Normalize(table)
	rep.observations = s.Len()
	if rep.observations == 0 {
		series.errorf("no observation survived normalization")
	} else {
		rep.firstYear = s.Observations[0].Year
		rep.lastYear = s.Observations[len(s.Observations)-1].Year
		for i := 1; i < len(s.Observations); i++ {
			if s.Observations[i].Year < s.Observations[i-1].Year {
				series.errorf("year %d follows %d: observations are not chronological",
					s.Observations[i].Year, s.Observations[i-1].Year)
				break
			}
		}
	}

	return []*phase{header, rows, series}, rep
}
