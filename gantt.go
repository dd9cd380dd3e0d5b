// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package gantt lays out Gantt-chart task lists as spreadsheet grids:
// one column per calendar day, a month/year banner row, and colored,
// bordered bars spanning each task's date range.
//
// The package computes the layout; writing cells is delegated to a
// Writer implementation (see the xlsx and ods subpackages).
package gantt

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
)

// Task is one chart row: a named date span with an optional RRGGBB fill color.
// The zero time.Time marks a missing or unparseable date.
type Task struct {
	Name  string    `json:"name"`
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
	Color string    `json:"color,omitempty"`
}

// Sheet is one worksheet's worth of tasks, with optional title rows
// rendered above the grid.
type Sheet struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	SubTitle string `json:"subTitle,omitempty"`
	Tasks    []Task `json:"tasks"`
}

// Meta holds document-level properties.
type Meta struct {
	OutputFileName string `json:"outputFileName,omitempty"`
	Author         string `json:"author,omitempty"`
	Title          string `json:"title,omitempty"`
	SubTitle       string `json:"subTitle,omitempty"`
}

// Options tune the layout. The zero value is usable; unset fields fall
// back to the defaults below.
type Options struct {
	// LeftPadding and RightPadding widen the window by whole days.
	LeftPadding  int `json:"leftPadding,omitempty"`
	RightPadding int `json:"rightPadding,omitempty"`
	// MinDaysForMonth is the minimum number of visible days of the
	// first and last month, so banner labels keep room to render.
	// Nil means DefaultMinDaysForMonth; point it at 0 to disable.
	MinDaysForMonth *int `json:"minDaysForMonth,omitempty"`
	// DefaultColor fills bars of tasks without their own Color.
	DefaultColor string `json:"defaultColor,omitempty"`
	// Language selects the month-label language (BCP 47 tag).
	Language string `json:"language,omitempty"`
	Border   Border `json:"borderStyle,omitempty"`

	// Logger receives per-sheet warnings. Nil means slog.Default.
	Logger *slog.Logger `json:"-"`
}

const (
	// DefaultColor is the hard-coded bar fill fallback.
	DefaultColor = "FF0000"
	// DefaultMinDaysForMonth applies when Options.MinDaysForMonth is nil.
	DefaultMinDaysForMonth = 5
)

func (o Options) minDays() int {
	if o.MinDaysForMonth != nil {
		return *o.MinDaysForMonth
	}
	return DefaultMinDaysForMonth
}

func (o Options) defaultColor() string {
	if o.DefaultColor != "" {
		return o.DefaultColor
	}
	return DefaultColor
}

func (o Options) border() Border {
	if o.Border != "" {
		return o.Border
	}
	return BorderThick
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Code is the outcome of a whole-document call.
type Code int

const (
	// CodeOK means the document was produced.
	CodeOK = Code(0)
	// CodeNoData means there was no input to lay out.
	CodeNoData = Code(1)
	// CodeInternal means layout or serialization failed.
	CodeInternal = Code(2)
)

// Result is what a whole-document call returns. Callers branch on Code;
// ErrorMessage is set only for CodeInternal, Warnings collect skipped
// sheets and dropped tasks.
type Result struct {
	Buffer       []byte
	Code         Code
	ErrorMessage string
	Warnings     []string
}

var (
	ErrNoSheets = errors.New("no sheets")
	ErrNoTasks  = errors.New("no tasks")
	// ErrTooManyRows is returned by sinks with a bounded row count.
	ErrTooManyRows = errors.New("too many rows")
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02.",
	"2006.01.02",
	"20060102",
}

// ParseDate parses ISO-like date strings. The result is truncated to
// the civil day at UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b-a in whole civil days (negative when b is earlier).
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)) / (24 * time.Hour))
}

func daysInMonth(t time.Time) int {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MaxSheetNameLen is the sanitized sheet-name length limit.
const MaxSheetNameLen = 25

// SanitizeSheetName keeps alphanumerics, spaces and underscores and
// truncates to MaxSheetNameLen runes. An empty result becomes "Sheet".
func SanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if n := []rune(s); len(n) > MaxSheetNameLen {
		s = string(n[:MaxSheetNameLen])
	}
	if s == "" {
		return "Sheet"
	}
	return s
}

// nameRegistry deduplicates sheet names within one document.
type nameRegistry map[string]struct{}

// Claim sanitizes name and returns it, suffixed with the smallest _N
// not yet claimed on collision.
func (reg nameRegistry) Claim(name string) string {
	s := SanitizeSheetName(name)
	if _, ok := reg[s]; !ok {
		reg[s] = struct{}{}
		return s
	}
	for n := 1; ; n++ {
		c := fmt.Sprintf("%s_%d", s, n)
		if _, ok := reg[c]; !ok {
			reg[c] = struct{}{}
			return c
		}
	}
}

// monthNames carries the languages the banner knows; anything else
// matches to English.
var monthNames = map[language.Tag][12]string{
	language.English: {"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	language.Hungarian: {"jan", "febr", "márc", "ápr", "máj", "jún",
		"júl", "aug", "szept", "okt", "nov", "dec"},
	language.German: {"Jan", "Feb", "März", "Apr", "Mai", "Juni",
		"Juli", "Aug", "Sept", "Okt", "Nov", "Dez"},
}

var monthMatcher = language.NewMatcher([]language.Tag{
	language.English, language.Hungarian, language.German,
})

// monthLabel renders "MMM YYYY" in the requested language, falling back
// to English for unknown or empty tags.
func monthLabel(t time.Time, lang string) string {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, i, _ := monthMatcher.Match(parsed)
			switch i {
			case 1:
				tag = language.Hungarian
			case 2:
				tag = language.German
			}
		}
	}
	return fmt.Sprintf("%s %d", monthNames[tag][t.Month()-1], t.Year())
}
