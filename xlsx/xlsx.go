// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx writes Gantt grids as Office Open XML workbooks through
// github.com/xuri/excelize.
package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/UNO-SOFT/gantt"
	"github.com/xuri/excelize/v2"
)

var _ = (gantt.Writer)((*Writer)(nil))

// Writer collects everything in excelize's in-memory workbook and
// serializes it on Close.
type Writer struct {
	w      io.Writer
	xl     *excelize.File
	styles map[string]int
	sheets []string
	mu     sync.Mutex
}

// Sheet addresses one worksheet of a Writer.
type Sheet struct {
	xl   *excelize.File
	w    *Writer
	Name string
	mu   sync.Mutex
}

// NewWriter returns a Writer serializing into w on Close.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, xl: excelize.NewFile()}
}

func (xlw *Writer) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xl, w := xlw.xl, xlw.w
	xlw.xl, xlw.w = nil, nil
	if xl == nil || w == nil {
		return nil
	}
	_, err := xl.WriteTo(w)
	return err
}

func (xlw *Writer) SetDocProps(author, title string) error {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	return xlw.xl.SetDocProps(&excelize.DocProperties{
		Creator: author,
		Title:   title,
	})
}

func (xlw *Writer) NewSheet(name string) (gantt.SheetWriter, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xlw.sheets = append(xlw.sheets, name)
	if len(xlw.sheets) == 1 { // first
		if err := xlw.xl.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := xlw.xl.NewSheet(name); err != nil {
		return nil, err
	}
	return &Sheet{xl: xlw.xl, w: xlw, Name: name}, nil
}

// borderWeights maps the border vocabulary onto OOXML line style IDs.
var borderWeights = map[gantt.Border]int{
	gantt.BorderThin:   1,
	gantt.BorderThick:  5,
	gantt.BorderDouble: 6,
}

// getStyle returns the cached style ID for style, creating it on first
// use.
func (xlw *Writer) getStyle(style gantt.CellStyle) (int, error) {
	if style.IsZero() {
		return 0, nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	k := fmt.Sprintf("%t\t%v\t%s\t%s\t%s|%s|%s|%s",
		style.Bold, style.FontSize, style.HAlign, style.FillColor,
		style.Left, style.Right, style.Top, style.Bottom)
	s, ok := xlw.styles[k]
	if ok {
		return s, nil
	}
	var st excelize.Style
	if style.Bold || style.FontSize != 0 {
		st.Font = &excelize.Font{Bold: style.Bold, Size: style.FontSize}
	}
	if style.HAlign != "" {
		st.Alignment = &excelize.Alignment{Horizontal: style.HAlign, Vertical: "center"}
	}
	if style.FillColor != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1,
			Color: []string{style.FillColor}}
	}
	for _, b := range []struct {
		edge  string
		style gantt.Border
	}{
		{"left", style.Left}, {"right", style.Right},
		{"top", style.Top}, {"bottom", style.Bottom},
	} {
		if b.style == "" {
			continue
		}
		st.Border = append(st.Border, excelize.Border{
			Type: b.edge, Color: "000000", Style: borderWeights[b.style],
		})
	}
	s, err := xlw.xl.NewStyle(&st)
	if err != nil {
		return 0, err
	}
	if xlw.styles == nil {
		xlw.styles = make(map[string]int)
	}
	xlw.styles[k] = s
	return s, nil
}

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

func (xls *Sheet) Close() error { return nil }

func (xls *Sheet) SetCell(row, col int, v any) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if row > MaxRowCount {
		return gantt.ErrTooManyRows
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%d/%d: %w", col, row, err)
	}
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		err = xls.xl.SetCellStr(xls.Name, axis, x.Format("2006-01-02"))
	case string:
		err = xls.xl.SetCellStr(xls.Name, axis, x)
	case fmt.Stringer:
		err = xls.xl.SetCellStr(xls.Name, axis, x.String())
	default:
		err = xls.xl.SetCellValue(xls.Name, axis, v)
	}
	if err != nil {
		return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
	}
	return nil
}

func (xls *Sheet) SetStyle(row, col int, style gantt.CellStyle) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	s, err := xls.w.getStyle(style)
	if err != nil || s == 0 {
		return err
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%d/%d: %w", col, row, err)
	}
	return xls.xl.SetCellStyle(xls.Name, axis, axis, s)
}

func (xls *Sheet) MergeCells(row, startCol, endCol int) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	h, err := excelize.CoordinatesToCellName(startCol, row)
	if err != nil {
		return err
	}
	v, err := excelize.CoordinatesToCellName(endCol, row)
	if err != nil {
		return err
	}
	return xls.xl.MergeCell(xls.Name, h, v)
}

func (xls *Sheet) SetColWidth(startCol, endCol int, width float64) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	start, err := excelize.ColumnNumberToName(startCol)
	if err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(endCol)
	if err != nil {
		return err
	}
	return xls.xl.SetColWidth(xls.Name, start, end, width)
}

// Generate lays sheets out into a new workbook and returns the
// serialized bytes in Result.Buffer on success.
func Generate(sheets []gantt.Sheet, meta *gantt.Meta, opts *gantt.Options) gantt.Result {
	var buf bytes.Buffer
	res := gantt.Render(NewWriter(&buf), sheets, meta, opts)
	if res.Code == gantt.CodeOK {
		res.Buffer = buf.Bytes()
	}
	return res
}

// GenerateFile renders the workbook into the named file.
func GenerateFile(fn string, sheets []gantt.Sheet, meta *gantt.Meta, opts *gantt.Options) gantt.Result {
	fh, err := os.Create(fn)
	if err != nil {
		return gantt.Result{Code: gantt.CodeInternal, ErrorMessage: err.Error()}
	}
	res := gantt.Render(NewWriter(fh), sheets, meta, opts)
	if err = fh.Close(); err != nil && res.Code == gantt.CodeOK {
		return gantt.Result{Code: gantt.CodeInternal, ErrorMessage: err.Error(),
			Warnings: res.Warnings}
	}
	return res
}
