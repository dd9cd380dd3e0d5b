// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gantt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intp(n int) *int { return &n }

func TestNormalizeTasksSwapsInvertedSpans(t *testing.T) {
	in := []Task{{Name: "backwards", Start: day(2024, 1, 10), End: day(2024, 1, 6)}}
	out, warnings := normalizeTasks("s", in)
	require.Len(t, out, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, day(2024, 1, 6), out[0].Start)
	assert.Equal(t, day(2024, 1, 10), out[0].End)
	// Caller data must stay untouched.
	assert.Equal(t, day(2024, 1, 10), in[0].Start)
}

func TestNormalizeTasksDropsInvalidDates(t *testing.T) {
	out, warnings := normalizeTasks("s", []Task{
		{Name: "good", Start: day(2024, 1, 1), End: day(2024, 1, 2)},
		{Name: "no end", Start: day(2024, 1, 1)},
		{Name: "no start", End: day(2024, 1, 2)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "good", out[0].Name)
	assert.Len(t, warnings, 2)
}

func TestResolveWindowSingleTask(t *testing.T) {
	w, err := resolveWindow(
		[]Task{{Start: day(2024, 1, 1), End: day(2024, 1, 5)}},
		Options{MinDaysForMonth: intp(0)})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), w.Min)
	assert.Equal(t, day(2024, 1, 5), w.Max)
	assert.Equal(t, 5, w.Days)
}

func TestResolveWindowPadding(t *testing.T) {
	w, err := resolveWindow(
		[]Task{{Start: day(2024, 3, 10), End: day(2024, 3, 20)}},
		Options{LeftPadding: 2, RightPadding: 3, MinDaysForMonth: intp(0)})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 8), w.Min)
	assert.Equal(t, day(2024, 3, 23), w.Max)
	assert.Equal(t, 16, w.Days)
}

func TestResolveWindowEdgeMonthWidening(t *testing.T) {
	// Jan 30 leaves 1 day of January visible; the deficit of 4 pushes
	// the window back to Jan 26. Feb 2 gets widened forward to Feb 5.
	w, err := resolveWindow(
		[]Task{{Start: day(2024, 1, 30), End: day(2024, 2, 2)}},
		Options{MinDaysForMonth: intp(5)})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 26), w.Min)
	assert.Equal(t, day(2024, 2, 5), w.Max)
}

func TestResolveWindowNoWideningWhenEnough(t *testing.T) {
	w, err := resolveWindow(
		[]Task{{Start: day(2024, 3, 10), End: day(2024, 3, 20)}},
		Options{MinDaysForMonth: intp(5)})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 10), w.Min)
	assert.Equal(t, day(2024, 3, 20), w.Max)
}

func TestResolveWindowContainsAllTasks(t *testing.T) {
	tasks := []Task{
		{Start: day(2024, 2, 10), End: day(2024, 2, 12)},
		{Start: day(2024, 1, 20), End: day(2024, 3, 5)},
		{Start: day(2024, 2, 1), End: day(2024, 4, 1)},
	}
	w, err := resolveWindow(tasks, Options{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, w.Days, 1)
	for _, task := range tasks {
		assert.True(t, w.Contains(task.Start), "start of %v", task)
		assert.True(t, w.Contains(task.End), "end of %v", task)
	}
}

func TestPlanBannersOnePerMonth(t *testing.T) {
	w := DateWindow{Min: day(2024, 1, 30), Max: day(2024, 2, 2), Days: 4}
	marks := planBanners(w, "")
	require.Len(t, marks, 2)
	assert.Equal(t, BannerMark{Col: 0, Label: "Jan 2024"}, marks[0])
	assert.Equal(t, BannerMark{Col: 2, Label: "Feb 2024"}, marks[1])
}

func TestPlanBannersAlwaysLabelsFirstColumn(t *testing.T) {
	w := DateWindow{Min: day(2024, 6, 15), Max: day(2024, 6, 20), Days: 6}
	marks := planBanners(w, "")
	require.Len(t, marks, 1)
	assert.Equal(t, 0, marks[0].Col)
}

func TestPlanBannersAcrossYearRollover(t *testing.T) {
	w := DateWindow{Min: day(2023, 12, 30), Max: day(2024, 1, 2), Days: 4}
	marks := planBanners(w, "")
	require.Len(t, marks, 2)
	assert.Equal(t, "Dec 2023", marks[0].Label)
	assert.Equal(t, "Jan 2024", marks[1].Label)
}

func TestPlanBannersLanguage(t *testing.T) {
	w := DateWindow{Min: day(2024, 3, 1), Max: day(2024, 3, 2), Days: 2}
	assert.Equal(t, "márc 2024", planBanners(w, "hu")[0].Label)
	assert.Equal(t, "März 2024", planBanners(w, "de-AT")[0].Label)
	assert.Equal(t, "Mar 2024", planBanners(w, "fr")[0].Label)
}

func TestPlanSheetBarSpans(t *testing.T) {
	plan, warnings, err := planSheet(Sheet{Name: "s", Tasks: []Task{
		{Name: "anchor", Start: day(2024, 1, 1), End: day(2024, 1, 1)},
		{Name: "bar", Start: day(2024, 1, 6), End: day(2024, 1, 10)},
	}}, Options{MinDaysForMonth: intp(0)})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, plan.Bars, 2)
	assert.Equal(t, 5, plan.Bars[1].StartCol)
	assert.Equal(t, 9, plan.Bars[1].EndCol)
	assert.Equal(t, 5, plan.Bars[1].EndCol-plan.Bars[1].StartCol+1)
}

func TestPlanSheetColorPrecedence(t *testing.T) {
	tasks := []Task{
		{Name: "own", Start: day(2024, 1, 1), End: day(2024, 1, 2), Color: "00FF00"},
		{Name: "default", Start: day(2024, 1, 1), End: day(2024, 1, 2)},
	}
	plan, _, err := planSheet(Sheet{Name: "s", Tasks: tasks},
		Options{DefaultColor: "0000FF"})
	require.NoError(t, err)
	assert.Equal(t, "00FF00", plan.Bars[0].Color)
	assert.Equal(t, "0000FF", plan.Bars[1].Color)

	plan, _, err = planSheet(Sheet{Name: "s", Tasks: tasks}, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, plan.Bars[1].Color)
}

func TestPlanSheetAllInvalidDates(t *testing.T) {
	_, warnings, err := planSheet(Sheet{Name: "s", Tasks: []Task{
		{Name: "a"}, {Name: "b"},
	}}, Options{})
	assert.ErrorIs(t, err, ErrNoTasks)
	assert.Len(t, warnings, 2)
}

func TestPlanSheetEmpty(t *testing.T) {
	_, _, err := planSheet(Sheet{Name: "s"}, Options{})
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestGridPlanColumns(t *testing.T) {
	plan, _, err := planSheet(Sheet{Name: "s", Tasks: []Task{
		{Name: "t", Start: day(2024, 1, 1), End: day(2024, 1, 5)},
	}}, Options{MinDaysForMonth: intp(0)})
	require.NoError(t, err)
	assert.Equal(t, 3+5, plan.Columns())
	assert.Equal(t, day(2024, 1, 3), plan.Day(2))
}

func TestDaysBetweenLeapYear(t *testing.T) {
	assert.Equal(t, 2, daysBetween(day(2024, 2, 28), day(2024, 3, 1)))
	assert.Equal(t, 1, daysBetween(day(2023, 2, 28), day(2023, 3, 1)))
}
