// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gantt

import (
	"errors"
	"fmt"
)

const (
	titleFontSize    = 16
	subTitleFontSize = 14

	nameColWidth = 30
	dateColWidth = 12
	dayColWidth  = 3.5
)

// Render lays out every sheet onto sink and closes the sink once at the
// end. sink is closed even on failure, so callers never have to. The
// returned Result carries no Buffer; buffer-producing wrappers live in
// the sink packages.
//
// Sheets with no tasks, or none with valid dates, are skipped with a
// warning; only an empty sheet list is fatal (CodeNoData).
func Render(sink Writer, sheets []Sheet, meta *Meta, opts *Options) Result {
	if len(sheets) == 0 {
		if sink != nil {
			sink.Close()
		}
		return Result{Code: CodeNoData, ErrorMessage: ErrNoSheets.Error()}
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	res := Result{Code: CodeOK}
	logger := o.logger()

	if meta != nil && (meta.Author != "" || meta.Title != "") {
		if err := sink.SetDocProps(meta.Author, meta.Title); err != nil {
			sink.Close()
			return internalError(fmt.Errorf("set document properties: %w", err))
		}
	}

	names := make(nameRegistry, len(sheets))
	var rendered int
	for _, s := range sheets {
		plan, warnings, err := planSheet(s, o)
		for _, w := range warnings {
			logger.Warn("layout", "sheet", s.Name, "warning", w)
		}
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			if errors.Is(err, ErrNoTasks) {
				w := fmt.Sprintf("%s: no renderable tasks, sheet skipped", s.Name)
				logger.Warn("layout", "sheet", s.Name, "warning", w)
				res.Warnings = append(res.Warnings, w)
				continue
			}
			sink.Close()
			return internalError(fmt.Errorf("sheet %q: %w", s.Name, err))
		}
		name := names.Claim(s.Name)
		if err := renderSheet(sink, name, s, plan, o); err != nil {
			sink.Close()
			return internalError(fmt.Errorf("sheet %q: %w", name, err))
		}
		rendered++
	}
	if rendered == 0 {
		sink.Close()
		return Result{Code: CodeNoData, ErrorMessage: ErrNoTasks.Error(),
			Warnings: res.Warnings}
	}
	if err := sink.Close(); err != nil {
		return internalError(fmt.Errorf("serialize: %w", err))
	}
	return res
}

func internalError(err error) Result {
	return Result{Code: CodeInternal, ErrorMessage: err.Error()}
}

// renderSheet draws one laid-out sheet: optional title block, banner
// row, header row, then one row per task with its bar overlay.
func renderSheet(sink Writer, name string, s Sheet, plan *GridPlan, opts Options) error {
	sh, err := sink.NewSheet(name)
	if err != nil {
		return err
	}
	total := plan.Columns()
	if err = sh.SetColWidth(1, 1, nameColWidth); err != nil {
		return err
	}
	if err = sh.SetColWidth(2, FixedColumns, dateColWidth); err != nil {
		return err
	}
	if err = sh.SetColWidth(FixedColumns+1, total, dayColWidth); err != nil {
		return err
	}

	row := 1
	writeBanner := func(text string, size float64) error {
		if err := sh.SetCell(row, 1, text); err != nil {
			return err
		}
		if err := sh.MergeCells(row, 1, total); err != nil {
			return err
		}
		return sh.SetStyle(row, 1, CellStyle{Bold: true, FontSize: size, HAlign: "center"})
	}
	if s.Title != "" {
		if err = writeBanner(s.Title, titleFontSize); err != nil {
			return err
		}
		row++
	}
	if s.SubTitle != "" {
		if err = writeBanner(s.SubTitle, subTitleFontSize); err != nil {
			return err
		}
		row++
	}
	// Separator between the title block and the grid.
	if row > 1 {
		row++
	}

	for _, mark := range plan.Banners {
		col := FixedColumns + 1 + mark.Col
		if err = sh.SetCell(row, col, mark.Label); err != nil {
			return err
		}
		if err = sh.SetStyle(row, col, CellStyle{Bold: true}); err != nil {
			return err
		}
	}
	row++

	for col, h := range []string{"Task", "Start", "End"} {
		if err = sh.SetCell(row, col+1, h); err != nil {
			return err
		}
		if err = sh.SetStyle(row, col+1, CellStyle{Bold: true}); err != nil {
			return err
		}
	}
	for d := 0; d < plan.Window.Days; d++ {
		col := FixedColumns + 1 + d
		if err = sh.SetCell(row, col, plan.Day(d).Day()); err != nil {
			return err
		}
		if err = sh.SetStyle(row, col, CellStyle{HAlign: "center"}); err != nil {
			return err
		}
	}
	row++

	border := opts.border()
	for i, t := range plan.Tasks {
		if err = sh.SetCell(row, 1, t.Name); err != nil {
			return err
		}
		if err = sh.SetCell(row, 2, t.Start); err != nil {
			return err
		}
		if err = sh.SetCell(row, 3, t.End); err != nil {
			return err
		}
		bar := plan.Bars[i]
		for col := bar.StartCol; col <= bar.EndCol; col++ {
			style := CellStyle{FillColor: bar.Color, Top: border, Bottom: border}
			if col == bar.StartCol {
				style.Left = border
			}
			if col == bar.EndCol {
				style.Right = border
			}
			if err = sh.SetStyle(row, FixedColumns+1+col, style); err != nil {
				return err
			}
		}
		row++
	}
	return sh.Close()
}
