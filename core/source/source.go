// Package source reads tabular price files from disk.
//
// Supported layouts:
//   - .tsv, .txt or no extension: one record per line, cells separated by tabs
//   - .csv: comma separated, quoted cells allowed
//   - .xlsx: first worksheet of an Excel workbook
//
// Text files are decoded with a configurable character set before splitting.
// Every cell is trimmed (empty leading cells are kept, so a matrix header may
// start with a blank corner) and blank lines are dropped, but each row keeps the
// 1-based line number it was read from so that load errors can point at it.
package source

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"tollgrid/internal/errors"
)

// Kind is the tabular layout of a file
type Kind string

const (
	KindTSV  Kind = "tsv"
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

// KindOf infers the layout from the file extension
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV
	case ".xlsx":
		return KindXLSX
	default:
		return KindTSV
	}
}

// Row is one non-blank record of a file
type Row struct {
	// Line is the 1-based line (or worksheet row) number
	Line int

	// Cells holds the trimmed cell values
	Cells []string
}

// Last returns the last cell, or "" for an empty row
func (r Row) Last() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[len(r.Cells)-1]
}

// Options controls how text files are decoded
type Options struct {
	// Encoding is the character set of text files (utf-8, windows-1252, iso-8859-1, iso-8859-15)
	Encoding string
}

// Decoder returns the decoder for the configured character set
func (o Options) Decoder() (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(o.Encoding)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder(), nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported encoding %q", o.Encoding)
	}
}

// ListFiles returns the regular files of dir sorted by name.
// Hidden files and office lock files are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.IO("cannot read directory "+dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// IsDir reports whether path is an existing directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadRows reads every non-blank record of a tabular file
func ReadRows(path string, opts Options) ([]Row, error) {
	switch KindOf(path) {
	case KindXLSX:
		return readWorkbook(path)
	case KindCSV:
		return readText(path, opts, readCSV)
	default:
		return readText(path, opts, readTSV)
	}
}

// ReadLines reads every line of a text file, decoded and with line endings removed
func ReadLines(path string, opts Options) ([]string, error) {
	var lines []string
	_, err := readText(path, opts, func(r io.Reader) ([]Row, error) {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
		}
		return nil, scanner.Err()
	})
	return lines, err
}

func readText(path string, opts Options, parse func(io.Reader) ([]Row, error)) ([]Row, error) {
	decoder, err := opts.Decoder()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.IO("cannot open "+path, err)
	}
	defer file.Close()

	rows, err := parse(transform.NewReader(file, decoder))
	if err != nil {
		return nil, errors.IO("cannot read "+path, err)
	}
	return rows, nil
}

func readTSV(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rows = append(rows, Row{Line: line, Cells: trimAll(strings.Split(text, "\t"))})
	}
	return rows, scanner.Err()
}

func readCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		rows = append(rows, Row{Line: line, Cells: trimAll(record)})
	}
}

func readWorkbook(path string) ([]Row, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.IO("cannot open workbook "+path, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.IO("cannot read sheet "+sheets[0]+" of "+path, err)
	}

	// GetRows drops trailing empty cells; pad rows back to the header width
	// so a blank last cell reads the same as in a text file.
	var rows []Row
	width := 0
	for i, record := range records {
		if isBlank(record) {
			continue
		}
		if len(rows) == 0 {
			width = len(record)
		}
		for len(record) < width {
			record = append(record, "")
		}
		rows = append(rows, Row{Line: i + 1, Cells: trimAll(record)})
	}
	return rows, nil
}

func trimAll(cells []string) []string {
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
