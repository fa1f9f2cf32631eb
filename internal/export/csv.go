// Package export writes analysis reports to CSV files that open cleanly
// in Excel. All writers emit a UTF-8 BOM by default so Excel detects the
// encoding instead of falling back to the system code page.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// utf8BOM makes Excel recognize the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions controls a single CSV write.
type WriteOptions struct {
	// Headers is the optional header row written before Records.
	Headers []string

	// Records are the data rows. A nil row is written as a blank line,
	// which report builders use to separate sections.
	Records [][]string

	// Append opens the file in append mode instead of truncating.
	Append bool

	// BOMPrefix writes the UTF-8 BOM at the start of a new file.
	BOMPrefix bool
}

// CSVWriter writes reports under a base directory, creating it on demand.
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter returns a writer rooted at baseDir. Relative report names
// are resolved against it; absolute paths are used as given.
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteCSV writes a report file according to opts.
func (w *CSVWriter) WriteCSV(name string, opts WriteOptions) error {
	path, err := w.resolvePath(name)
	if err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if opts.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if opts.BOMPrefix && !opts.Append {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if len(opts.Headers) > 0 {
		if err := cw.Write(opts.Headers); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}

	for _, record := range opts.Records {
		if record == nil {
			record = []string{""}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSimpleCSV writes headers plus records with the default BOM prefix.
func (w *CSVWriter) WriteSimpleCSV(name string, headers []string, records [][]string) error {
	return w.WriteCSV(name, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// AppendToCSV appends records to an existing report without rewriting
// headers or the BOM.
func (w *CSVWriter) AppendToCSV(name string, records [][]string) error {
	return w.WriteCSV(name, WriteOptions{
		Records: records,
		Append:  true,
	})
}

func (w *CSVWriter) resolvePath(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.baseDir, name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}
	return path, nil
}

// StreamWriter writes large reports record by record without buffering
// the whole file.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter opens a fresh report file, writes the BOM and the
// header row, and returns a writer for the data rows.
func (w *CSVWriter) CreateStreamWriter(name string, headers []string) (*StreamWriter, error) {
	path, err := w.resolvePath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: cw}, nil
}

// WriteRecord writes one data row.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered rows and closes the file.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
