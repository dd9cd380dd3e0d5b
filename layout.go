// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gantt

import (
	"fmt"
	"time"
)

// FixedColumns lead every grid: task name, start date, end date.
const FixedColumns = 3

// DateWindow is the [Min,Max] date range a sheet's grid covers, after
// padding and edge-month widening. Days is the day-column count.
type DateWindow struct {
	Min, Max time.Time
	Days     int
}

// Contains reports whether d falls inside the window.
func (w DateWindow) Contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(w.Min) && !d.After(w.Max)
}

// BannerMark labels the first visible day-column of a month.
// Col is the 0-based day-column offset.
type BannerMark struct {
	Col   int
	Label string
}

// BarSpan is one task's bar: inclusive 0-based day-column offsets and
// the resolved fill color.
type BarSpan struct {
	StartCol, EndCol int
	Color            string
}

// GridPlan fully describes one sheet's grid. It is recomputed fresh on
// every layout pass and shares no state with its inputs.
type GridPlan struct {
	Window  DateWindow
	Banners []BannerMark
	// Tasks are the normalized copies that render; Bars[i] belongs to
	// Tasks[i].
	Tasks []Task
	Bars  []BarSpan
}

// Day returns the date of the 0-based day-column d.
func (p *GridPlan) Day(d int) time.Time { return p.Window.Min.AddDate(0, 0, d) }

// Columns is the total column count: the fixed leading columns plus one
// per day.
func (p *GridPlan) Columns() int { return FixedColumns + p.Window.Days }

// normalizeTasks returns corrected copies of tasks: inverted spans are
// swapped, times truncated to civil days, and tasks with a missing or
// invalid date dropped with a warning. Caller data is never written to.
func normalizeTasks(sheet string, tasks []Task) ([]Task, []string) {
	out := make([]Task, 0, len(tasks))
	var warnings []string
	for _, t := range tasks {
		if t.Start.IsZero() || t.End.IsZero() {
			warnings = append(warnings, fmt.Sprintf(
				"%s: task %q has a missing or invalid date, dropped", sheet, t.Name))
			continue
		}
		t.Start, t.End = dateOnly(t.Start), dateOnly(t.End)
		if t.Start.After(t.End) {
			t.Start, t.End = t.End, t.Start
		}
		out = append(out, t)
	}
	return out, warnings
}

// resolveWindow computes the date window of already-normalized tasks:
// the min/max over all spans, widened by padding, then by the edge-month
// rule so the first and last visible month keep at least minDays days.
func resolveWindow(tasks []Task, opts Options) (DateWindow, error) {
	if len(tasks) == 0 {
		return DateWindow{}, ErrNoTasks
	}
	min, max := tasks[0].Start, tasks[0].End
	for _, t := range tasks[1:] {
		if t.Start.Before(min) {
			min = t.Start
		}
		if t.End.After(max) {
			max = t.End
		}
	}
	min = min.AddDate(0, 0, -opts.LeftPadding)
	max = max.AddDate(0, 0, opts.RightPadding)

	minDays := opts.minDays()
	if rest := daysInMonth(min) - min.Day(); rest < minDays {
		min = min.AddDate(0, 0, -(minDays - rest))
	}
	if day := max.Day(); day < minDays {
		max = max.AddDate(0, 0, minDays-day)
	}

	days := daysBetween(min, max) + 1
	if days < 1 {
		return DateWindow{}, fmt.Errorf("degenerate window %s..%s",
			min.Format("2006-01-02"), max.Format("2006-01-02"))
	}
	return DateWindow{Min: min, Max: max, Days: days}, nil
}

// planBanners scans the day-columns with a rolling (month, year) cursor
// and emits one mark per month boundary. The sentinel cursor never
// matches a real date, so column 0 always gets a mark.
func planBanners(w DateWindow, lang string) []BannerMark {
	var marks []BannerMark
	curMonth, curYear := time.Month(0), 0
	for d := 0; d < w.Days; d++ {
		day := w.Min.AddDate(0, 0, d)
		if m, y := day.Month(), day.Year(); m != curMonth || y != curYear {
			marks = append(marks, BannerMark{Col: d, Label: monthLabel(day, lang)})
			curMonth, curYear = m, y
		}
	}
	return marks
}

// planSheet lays out one sheet. Tasks with invalid dates are dropped and
// reported in the warnings; ErrNoTasks is returned when nothing renders.
func planSheet(s Sheet, opts Options) (*GridPlan, []string, error) {
	tasks, warnings := normalizeTasks(s.Name, s.Tasks)
	if len(tasks) == 0 {
		return nil, warnings, ErrNoTasks
	}
	w, err := resolveWindow(tasks, opts)
	if err != nil {
		return nil, warnings, err
	}
	plan := GridPlan{
		Window:  w,
		Banners: planBanners(w, opts.Language),
		Tasks:   tasks,
		Bars:    make([]BarSpan, len(tasks)),
	}
	for i, t := range tasks {
		color := t.Color
		if color == "" {
			color = opts.defaultColor()
		}
		plan.Bars[i] = BarSpan{
			StartCol: daysBetween(w.Min, t.Start),
			EndCol:   daysBetween(w.Min, t.End),
			Color:    color,
		}
	}
	return &plan, warnings, nil
}
