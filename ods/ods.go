// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package ods writes Gantt grids as flat OpenDocument spreadsheets.
//
// The writer collects cells in memory and renders the whole document on
// Close: a zip archive with the uncompressed mimetype entry first, then
// manifest, meta, styles and content, compressed with
// github.com/klauspost/compress/flate.
package ods

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/UNO-SOFT/gantt"
)

var _ = (gantt.Writer)((*Writer)(nil))

// MimeType is the ODS media type, stored as the archive's first entry.
const MimeType = "application/vnd.oasis.opendocument.spreadsheet"

type Writer struct {
	w             io.Writer
	sheets        []*Sheet
	author, title string
	mu            sync.Mutex
}

// Sheet is the in-memory cell grid of one table.
type Sheet struct {
	name           string
	rows           map[int]map[int]*cell
	maxRow, maxCol int
	widths         []colWidth
	mu             sync.Mutex
}

type cell struct {
	value   any
	style   gantt.CellStyle
	styled  bool
	span    int
	covered bool
}

type colWidth struct {
	start, end int
	width      float64
}

// NewWriter returns a Writer serializing into w on Close.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (o *Writer) SetDocProps(author, title string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.author, o.title = author, title
	return nil
}

func (o *Writer) NewSheet(name string) (gantt.SheetWriter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.w == nil {
		return nil, fmt.Errorf("ods: writer already closed")
	}
	sh := &Sheet{name: name, rows: make(map[int]map[int]*cell)}
	o.sheets = append(o.sheets, sh)
	return sh, nil
}

func (sh *Sheet) Close() error { return nil }

func (sh *Sheet) at(row, col int) *cell {
	r := sh.rows[row]
	if r == nil {
		r = make(map[int]*cell)
		sh.rows[row] = r
	}
	c := r[col]
	if c == nil {
		c = &cell{}
		r[col] = c
	}
	if row > sh.maxRow {
		sh.maxRow = row
	}
	if col > sh.maxCol {
		sh.maxCol = col
	}
	return c
}

func (sh *Sheet) SetCell(row, col int, v any) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if row < 1 || col < 1 {
		return fmt.Errorf("ods: cell %d/%d out of range", row, col)
	}
	sh.at(row, col).value = v
	return nil
}

func (sh *Sheet) SetStyle(row, col int, style gantt.CellStyle) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if style.IsZero() {
		return nil
	}
	c := sh.at(row, col)
	c.style, c.styled = style, true
	return nil
}

func (sh *Sheet) MergeCells(row, startCol, endCol int) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if endCol <= startCol {
		return nil
	}
	sh.at(row, startCol).span = endCol - startCol + 1
	for col := startCol + 1; col <= endCol; col++ {
		sh.at(row, col).covered = true
	}
	return nil
}

func (sh *Sheet) SetColWidth(startCol, endCol int, width float64) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.widths = append(sh.widths, colWidth{start: startCol, end: endCol, width: width})
	if endCol > sh.maxCol {
		sh.maxCol = endCol
	}
	return nil
}

// Close renders and writes the document.
func (o *Writer) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.w
	o.w = nil
	if w == nil {
		return nil
	}
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestSpeed)
	})
	// The mimetype must be first and uncompressed.
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err = io.WriteString(fw, MimeType); err != nil {
		return err
	}
	for _, part := range []struct {
		name    string
		content []byte
	}{
		{"META-INF/manifest.xml", manifestXML()},
		{"meta.xml", metaXML(o.author, o.title)},
		{"styles.xml", stylesXML()},
		{"content.xml", o.contentXML()},
	} {
		if fw, err = zw.Create(part.name); err != nil {
			return err
		}
		if _, err = fw.Write(part.content); err != nil {
			return fmt.Errorf("%s: %w", part.name, err)
		}
	}
	return zw.Close()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

func manifestXML() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">` + "\n")
	fmt.Fprintf(&buf, ` <manifest:file-entry manifest:full-path="/" manifest:media-type=%q/>`+"\n", MimeType)
	for _, fn := range []string{"content.xml", "styles.xml", "meta.xml"} {
		fmt.Fprintf(&buf, ` <manifest:file-entry manifest:full-path=%q manifest:media-type="text/xml"/>`+"\n", fn)
	}
	buf.WriteString("</manifest:manifest>\n")
	return buf.Bytes()
}

func metaXML(author, title string) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0" xmlns:dc="http://purl.org/dc/elements/1.1/" office:version="1.2"><office:meta>`)
	fmt.Fprintf(&buf, `<meta:generator>github.com/UNO-SOFT/gantt</meta:generator>`)
	if author != "" {
		fmt.Fprintf(&buf, "<dc:creator>%s</dc:creator>", esc(author))
	}
	if title != "" {
		fmt.Fprintf(&buf, "<dc:title>%s</dc:title>", esc(title))
	}
	fmt.Fprintf(&buf, "<meta:creation-date>%s</meta:creation-date>",
		time.Now().UTC().Format("2006-01-02T15:04:05Z"))
	buf.WriteString("</office:meta></office:document-meta>\n")
	return buf.Bytes()
}

func stylesXML() []byte {
	return []byte(xmlHeader +
		`<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" office:version="1.2"><office:styles/></office:document-styles>` + "\n")
}

// borderLines maps the border vocabulary onto fo:border values.
var borderLines = map[gantt.Border]string{
	gantt.BorderThin:   "0.75pt solid #000000",
	gantt.BorderThick:  "2.5pt solid #000000",
	gantt.BorderDouble: "0.75pt double #000000",
}

// contentXML renders all sheets. Cell and column styles are collected
// into office:automatic-styles, deduplicated by a formatted key the way
// the xlsx writer caches excelize style IDs.
func (o *Writer) contentXML() []byte {
	cellStyles := make(map[string]string)
	var cellOrder []gantt.CellStyle
	styleName := func(st gantt.CellStyle) string {
		k := fmt.Sprintf("%t\t%v\t%s\t%s\t%s|%s|%s|%s",
			st.Bold, st.FontSize, st.HAlign, st.FillColor,
			st.Left, st.Right, st.Top, st.Bottom)
		if n, ok := cellStyles[k]; ok {
			return n
		}
		n := fmt.Sprintf("ce%d", len(cellStyles)+1)
		cellStyles[k] = n
		cellOrder = append(cellOrder, st)
		return n
	}

	type table struct {
		sh       *Sheet
		colStyle map[int]string // column index -> style name
		cells    map[int]map[int]string
	}
	colStyles := make(map[float64]string)
	var colOrder []float64
	tables := make([]table, len(o.sheets))
	for i, sh := range o.sheets {
		t := table{sh: sh, colStyle: make(map[int]string),
			cells: make(map[int]map[int]string)}
		for _, cw := range sh.widths {
			n, ok := colStyles[cw.width]
			if !ok {
				n = fmt.Sprintf("co%d", len(colStyles)+1)
				colStyles[cw.width] = n
				colOrder = append(colOrder, cw.width)
			}
			for col := cw.start; col <= cw.end; col++ {
				t.colStyle[col] = n
			}
		}
		for row, r := range sh.rows {
			for col, c := range r {
				if c.styled {
					if t.cells[row] == nil {
						t.cells[row] = make(map[int]string)
					}
					t.cells[row][col] = styleName(c.style)
				}
			}
		}
		tables[i] = t
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.2">` + "\n")

	buf.WriteString("<office:automatic-styles>\n")
	for _, width := range colOrder {
		// Spreadsheet column units are roughly 2mm wide characters.
		fmt.Fprintf(&buf,
			`<style:style style:name=%q style:family="table-column"><style:table-column-properties style:column-width="%.2fmm"/></style:style>`+"\n",
			colStyles[width], width*2)
	}
	for i, st := range cellOrder {
		fmt.Fprintf(&buf, `<style:style style:name="ce%d" style:family="table-cell">`, i+1)
		var cellProps string
		if st.FillColor != "" {
			cellProps += fmt.Sprintf(` fo:background-color="#%s"`, st.FillColor)
		}
		for _, b := range []struct {
			edge  string
			style gantt.Border
		}{
			{"left", st.Left}, {"right", st.Right},
			{"top", st.Top}, {"bottom", st.Bottom},
		} {
			if b.style != "" {
				cellProps += fmt.Sprintf(` fo:border-%s=%q`, b.edge, borderLines[b.style])
			}
		}
		if cellProps != "" {
			fmt.Fprintf(&buf, "<style:table-cell-properties%s/>", cellProps)
		}
		if st.Bold || st.FontSize != 0 {
			buf.WriteString("<style:text-properties")
			if st.Bold {
				buf.WriteString(` fo:font-weight="bold"`)
			}
			if st.FontSize != 0 {
				fmt.Fprintf(&buf, ` fo:font-size="%vpt"`, st.FontSize)
			}
			buf.WriteString("/>")
		}
		if st.HAlign != "" {
			fmt.Fprintf(&buf, `<style:paragraph-properties fo:text-align=%q/>`, st.HAlign)
		}
		buf.WriteString("</style:style>\n")
	}
	buf.WriteString("</office:automatic-styles>\n")

	buf.WriteString("<office:body><office:spreadsheet>\n")
	for _, t := range tables {
		sh := t.sh
		fmt.Fprintf(&buf, `<table:table table:name=%q>`+"\n", esc(sh.name))
		for col := 1; col <= sh.maxCol; col++ {
			if n, ok := t.colStyle[col]; ok {
				fmt.Fprintf(&buf, `<table:table-column table:style-name=%q/>`+"\n", n)
			} else {
				buf.WriteString("<table:table-column/>\n")
			}
		}
		for row := 1; row <= sh.maxRow; row++ {
			r := sh.rows[row]
			if len(r) == 0 {
				buf.WriteString("<table:table-row><table:table-cell/></table:table-row>\n")
				continue
			}
			buf.WriteString("<table:table-row>")
			cols := make([]int, 0, len(r))
			for col := range r {
				cols = append(cols, col)
			}
			sort.Ints(cols)
			prev := 0
			for _, col := range cols {
				if gap := col - prev - 1; gap > 0 {
					fmt.Fprintf(&buf, `<table:table-cell table:number-columns-repeated="%d"/>`, gap)
				}
				prev = col
				writeCell(&buf, r[col], t.cells[row][col])
			}
			buf.WriteString("</table:table-row>\n")
		}
		buf.WriteString("</table:table>\n")
	}
	buf.WriteString("</office:spreadsheet></office:body></office:document-content>\n")
	return buf.Bytes()
}

func writeCell(buf *bytes.Buffer, c *cell, styleName string) {
	if c.covered {
		buf.WriteString("<table:covered-table-cell/>")
		return
	}
	var attrs string
	if styleName != "" {
		attrs += fmt.Sprintf(` table:style-name=%q`, styleName)
	}
	if c.span > 1 {
		attrs += fmt.Sprintf(` table:number-columns-spanned="%d"`, c.span)
	}
	var text string
	switch x := c.value.(type) {
	case nil:
		fmt.Fprintf(buf, "<table:table-cell%s/>", attrs)
		return
	case time.Time:
		iso := x.Format("2006-01-02")
		attrs += fmt.Sprintf(` office:value-type="date" office:date-value=%q`, iso)
		text = iso
	case int:
		attrs += fmt.Sprintf(` office:value-type="float" office:value="%d"`, x)
		text = fmt.Sprintf("%d", x)
	case float64:
		attrs += fmt.Sprintf(` office:value-type="float" office:value="%v"`, x)
		text = fmt.Sprintf("%v", x)
	case fmt.Stringer:
		attrs += ` office:value-type="string"`
		text = x.String()
	default:
		attrs += ` office:value-type="string"`
		text = fmt.Sprintf("%v", x)
	}
	fmt.Fprintf(buf, "<table:table-cell%s><text:p>%s</text:p></table:table-cell>",
		attrs, esc(text))
}

func esc(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// Generate lays sheets out into a new document and returns the
// serialized bytes in Result.Buffer on success.
func Generate(sheets []gantt.Sheet, meta *gantt.Meta, opts *gantt.Options) gantt.Result {
	var buf bytes.Buffer
	res := gantt.Render(NewWriter(&buf), sheets, meta, opts)
	if res.Code == gantt.CodeOK {
		res.Buffer = buf.Bytes()
	}
	return res
}

// GenerateFile renders the document into the named file.
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
