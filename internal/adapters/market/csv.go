package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/models"
)

// ErrNoValidRows is returned when no row of the input survives parsing
var ErrNoValidRows = errors.New("no valid price rows")

var requiredColumns = []string{"date", "open", "high", "low", "close"}

// LoadReport summarizes one ingestion
type LoadReport struct {
	Rows    int // data rows read, excluding the header
	Dropped int
}

// LoadFile reads a price CSV from disk
func LoadFile(path string) ([]models.PricePoint, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("failed to open price file: %w", err)
	}
	defer f.Close()

	series, report, err := LoadCSV(f)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", path, err)
	}
	return series, report, nil
}

// LoadCSV parses Date,Open,High,Low,Close[,Volume] rows.
// Header names are matched case-insensitively and in any order.
// Rows that fail parsing are dropped; the result is sorted by date.
func LoadCSV(r io.Reader) ([]models.PricePoint, LoadReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, LoadReport{}, ErrNoValidRows
	}
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, LoadReport{}, err
	}

	var report LoadReport
	series := make([]models.PricePoint, 0, 256)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		report.Rows++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, report, fmt.Errorf("failed to read prices: %w", err)
			}
			report.Dropped++
			logger.Debug("dropping unreadable csv row", zap.Int("row", report.Rows), zap.Error(err))
			continue
		}

		point, err := parseRow(record, cols)
		if err != nil {
			report.Dropped++
			logger.Debug("dropping invalid csv row", zap.Int("row", report.Rows), zap.Error(err))
			continue
		}
		series = append(series, point)
	}

	if report.Dropped > 0 {
		logger.Warn("dropped invalid price rows",
			zap.Int("dropped", report.Dropped),
			zap.Int("rows", report.Rows),
		)
	}

	if len(series) == 0 {
		return nil, report, ErrNoValidRows
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series, report, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRow(record []string, cols map[string]int) (models.PricePoint, error) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	raw, _ := field("date")
	date, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}

	number := func(name string) (float64, error) {
		raw, ok := field(name)
		if !ok {
			return 0, fmt.Errorf("missing %s", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("non-finite %s", name)
		}
		return v, nil
	}

	point := models.PricePoint{Date: date, Volume: models.DefaultVolume}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"open", &point.Open},
		{"high", &point.High},
		{"low", &point.Low},
		{"close", &point.Close},
	} {
		if *f.dst, err = number(f.name); err != nil {
			return models.PricePoint{}, err
		}
	}

	// Volume is optional; blank or unparsable values fall back to the default
	if raw, ok := field("volume"); ok && raw != "" {
		if v, err := number("volume"); err == nil {
			point.Volume = v
		}
	}

	return point, nil
}
