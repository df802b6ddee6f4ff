package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
	"github.com/YuminosukeSato/stockcast/pkg/log"
)

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	sheet  string
	logger log.Logger
}

// WithSheet selects the worksheet of an .xlsx file. The first sheet is used
// by default.
func WithSheet(name string) LoadOption {
	return func(c *loadConfig) { c.sheet = name }
}

// WithLogger replaces the loader's component logger.
func WithLogger(l log.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

// Load reads an inventory table from a .csv or .xlsx file and cleans it.
//
// The first row is the header. A file with no rows at all is rejected; a
// header-only file yields an empty Dataset.
func Load(path string, opts ...LoadOption) (*Dataset, error) {
	cfg := &loadConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("dataset.loader")
	}

	start := time.Now()
	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = readCSVFile(path)
	case ".xlsx":
		records, err = readXLSX(path, cfg.sheet)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "input extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	ds, err := fromRecords(records)
	if err != nil {
		return nil, errors.Wrapf(err, "loading inventory data from %s", path)
	}

	cfg.logger.Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, len(ds.Columns()),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// ReadCSV reads and cleans an inventory table from r.
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.NewValueError("dataset.Load", "the inventory data file is empty")
	}
	return Clean(records[0], records[1:])
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "inventory data file not found at: %s", path)
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inventory CSV")
	}
	return records, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "inventory data file not found at: %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewValueError("dataset.Load", "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}

	out := rows[:0]
	for i, row := range rows {
		if i > 0 && blank(row) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
