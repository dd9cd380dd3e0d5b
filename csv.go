package gantt

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var EncName = "utf-8"

func init() {
	EncName = os.Getenv("LANG")
	if i := strings.IndexByte(EncName, '.'); i >= 0 {
		EncName = strings.ToLower(EncName[i+1:])
	}
	if EncName == "" {
		EncName = "utf-8"
	}
}

func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// OpenCsv opens fn ("" or "-" means stdin) decoding from encName, with
// the field separator sniffed from the first kilobyte.
func OpenCsv(fn, encName string) (csvReadCloser, error) {
	var enc encoding.Encoding
	if encName != "" {
		var err error
		if enc, err = GetEncoding(encName); err != nil {
			return csvReadCloser{}, err
		}
	}
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return csvReadCloser{}, err
		}
	}
	r := io.ReadCloser(fh)
	if enc != nil {
		r = struct {
			io.Reader
			io.Closer
		}{enc.NewDecoder().Reader(r), r}
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return csvReadCloser{}, err
	}
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	return csvReadCloser{cr, r}, nil
}

// ReadTasksCSV reads a task list from a CSV file with columns
// name,start,end[,color]. A first row whose start field does not parse
// as a date is taken for a header and skipped. Rows with missing or
// unparseable dates are returned as warnings, not errors.
func ReadTasksCSV(fn, encName string) ([]Task, []string, error) {
	cr, err := OpenCsv(fn, encName)
	if err != nil {
		return nil, nil, err
	}
	defer cr.Close()

	var tasks []Task
	var warnings []string
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return tasks, warnings, fmt.Errorf("%s:%d: %w", fn, line, err)
		}
		if len(row) < 3 {
			warnings = append(warnings, fmt.Sprintf(
				"%s:%d: want at least 3 fields, got %d", fn, line, len(row)))
			continue
		}
		start, startErr := ParseDate(row[1])
		end, endErr := ParseDate(row[2])
		if startErr != nil || endErr != nil {
			if line == 1 {
				// Header row.
				continue
			}
			warnings = append(warnings, fmt.Sprintf(
				"%s:%d: task %q: bad dates (%q, %q)", fn, line, row[0], row[1], row[2]))
			continue
		}
		// ReuseRecord means the row's backing store is rewritten by the
		// next Read, so retained fields must be cloned.
		t := Task{Name: strings.Clone(strings.TrimSpace(row[0])), Start: start, End: end}
		if len(row) > 3 {
			t.Color = strings.Clone(strings.TrimSpace(strings.TrimPrefix(row[3], "#")))
		}
		tasks = append(tasks, t)
	}
	return tasks, warnings, nil
}
