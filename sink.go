// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gantt

import "io"

// Writer is the spreadsheet sink the renderer draws on. The document is
// serialized when Close is called, exactly once per Render.
//
// Implementations need not support concurrent use; the renderer writes
// sheets sequentially.
type Writer interface {
	io.Closer
	NewSheet(name string) (SheetWriter, error)
	// SetDocProps records document metadata; implementations without a
	// metadata concept may ignore it.
	SetDocProps(author, title string) error
}

// SheetWriter addresses cells of one worksheet. Rows and columns are
// 1-based. Values may be set and styled in any order; a cell's style is
// independent of its value, so bar overlays never clobber headers.
type SheetWriter interface {
	io.Closer
	SetCell(row, col int, value any) error
	SetStyle(row, col int, style CellStyle) error
	// MergeCells joins [startCol,endCol] of row into one cell.
	MergeCells(row, startCol, endCol int) error
	SetColWidth(startCol, endCol int, width float64) error
}

// Border is a bar edge line style.
type Border string

const (
	BorderThin   = Border("thin")
	BorderThick  = Border("thick")
	BorderDouble = Border("double")
)

// UnmarshalText validates and sets the border style, so Border works as
// a flag.Value target and a JSON string.
func (b *Border) UnmarshalText(p []byte) error {
	switch s := Border(p); s {
	case BorderThin, BorderThick, BorderDouble:
		*b = s
		return nil
	case "":
		*b = BorderThick
		return nil
	}
	return &UnknownBorderError{Name: string(p)}
}

func (b Border) String() string { return string(b) }

// UnknownBorderError reports an unrecognized border style name.
type UnknownBorderError struct{ Name string }

func (e *UnknownBorderError) Error() string {
	return "unknown border style " + e.Name + " (want thin, thick or double)"
}

// CellStyle is the style vocabulary the renderer needs. Zero fields
// mean "leave alone": no fill, no border on that edge, default font.
type CellStyle struct {
	Bold     bool
	FontSize float64
	// HAlign is "" or one of "left", "center", "right".
	HAlign string
	// FillColor is an RRGGBB hex string.
	FillColor string

	Left, Right, Top, Bottom Border
}

// IsZero reports whether the style would change nothing.
func (s CellStyle) IsZero() bool { return s == CellStyle{} }
