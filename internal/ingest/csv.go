// Package ingest is the boundary between tabular county data and the typed
// domain model. It parses the dashboard CSV export, canonicalizes county
// names, and rejects malformed rows before they reach the scoring engine.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
)

// requiredColumns are the CSV headers a county dataset must carry, in any
// order and any casing.
var requiredColumns = []string{
	"county_name",
	"population",
	"population_at_risk",
	"tmax_z_mean",
	"tmax_z_max",
	"prcp_z_mean",
	"prcp_z_min",
	"fire_count_noaa",
	"fema_declaration_count",
	"pct_interface",
	"pct_intermix",
}

// RowError records a rejected CSV row. Line numbers are 1-based and include
// the header row, matching what an editor shows.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

// Read parses county records from CSV data. Structural problems (missing
// columns, unreadable input) fail the whole read; individual malformed rows
// are collected as RowErrors so the caller can log and count them while the
// valid remainder proceeds.
func Read(r io.Reader) ([]domain.CountyRecord, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []domain.CountyRecord
		rejects []RowError
		line    = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rejects = append(rejects, RowError{Line: line, Err: err})
			continue
		}

		rec, err := parseRow(cols, row)
		if err != nil {
			rejects = append(rejects, RowError{Line: line, Err: err})
			continue
		}
		records = append(records, rec)
	}

	return records, rejects, nil
}

// LoadFile reads and parses a county CSV file.
func LoadFile(path string) ([]domain.CountyRecord, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open county data: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// FileSource adapts a CSV file path to the pipeline's record source. The
// file is re-read on every load so re-scoring picks up replaced data.
type FileSource struct {
	path string
}

// NewFileSource creates a record source over a CSV file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// LoadRecords implements pipeline.RecordSource.
func (s *FileSource) LoadRecords(_ context.Context) ([]domain.CountyRecord, []error, error) {
	records, rejects, err := LoadFile(s.path)
	if err != nil {
		return nil, nil, err
	}
	errs := make([]error, len(rejects))
	for i, r := range rejects {
		errs[i] = r
	}
	return records, errs, nil
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("county data missing column %q", required)
		}
	}
	return cols, nil
}

func parseRow(cols map[string]int, row []string) (domain.CountyRecord, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(row) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return strings.TrimSpace(row[i]), nil
	}
	intField := func(name string) (int64, error) {
		s, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", name, err)
		}
		return v, nil
	}
	floatField := func(name string) (float64, error) {
		s, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", name, err)
		}
		return v, nil
	}

	var rec domain.CountyRecord
	var err error

	name, err := field("county_name")
	if err != nil {
		return domain.CountyRecord{}, err
	}
	rec.CountyName = domain.CanonicalCountyName(name)

	if rec.Population, err = intField("population"); err != nil {
		return domain.CountyRecord{}, err
	}
	if rec.PopulationAtRisk, err = intField("population_at_risk"); err != nil {
		return domain.CountyRecord{}, err
	}
	if rec.TmaxZMean, err = floatField("tmax_z_mean"); err != nil {
		return domain.CountyRecord{}, err
	}
	if rec.TmaxZMax, err = floatField("tmax_z_max"); err != nil {
		return domain.CountyRecord{}, err
	}
	if rec.PrcpZMean, err = floatField("prcp_z_mean"); err != nil {
		return domain.CountyRecord{}, err
	}
	if rec.PrcpZMin, err = floatField("prcp_z_min"); err != nil {
		return domain.CountyRecord{}, err
	}

	fireCount, err := intField("fire_count_noaa")
	if err != nil {
		return domain.CountyRecord{}, err
	}
	rec.FireCountNOAA = int(fireCount)

	femaCount, err := intField("fema_declaration_count")
	if err != nil {
		return domain.CountyRecord{}, err
	}
	rec.FEMADeclarationCount = int(femaCount)

	if rec.PctInterface, err = floatField("pct_interface"); err != nil {
		return domain.CountyRecord{}, err
	}
	if rec.PctIntermix, err = floatField("pct_intermix"); err != nil {
		return domain.CountyRecord{}, err
	}

	if err := rec.Validate(); err != nil {
		return domain.CountyRecord{}, err
	}
	return rec, nil
}
