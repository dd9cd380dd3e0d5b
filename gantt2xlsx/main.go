// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command gantt2xlsx renders Gantt task lists as XLSX or ODS workbooks.
//
// Input is either one JSON document
// ({"sheets":[{"name":…,"tasks":[{"name":…,"start":"2026-01-05",…}]}]})
// or CSV files of name,start,end[,color] rows, one sheet per file,
// given as "SheetName:tasks.csv" arguments.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/gantt"
	"github.com/UNO-SOFT/gantt/ods"
	"github.com/UNO-SOFT/gantt/xlsx"
	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3/ffcli"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	opts := gantt.Options{Logger: logger}
	minDays := gantt.DefaultMinDaysForMonth

	fs := flag.NewFlagSet("gantt2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagOut := fs.String("o", "", "output file name (.xlsx or .ods; default stdout as xlsx)")
	flagEnc := fs.String("charset", gantt.EncName, "csv charset name")
	fs.IntVar(&opts.LeftPadding, "left", 0, "days of padding before the first task")
	fs.IntVar(&opts.RightPadding, "right", 0, "days of padding after the last task")
	fs.IntVar(&minDays, "min-days", minDays, "minimum visible days of the first/last month")
	fs.StringVar(&opts.DefaultColor, "color", gantt.DefaultColor, "default bar color (RRGGBB)")
	fs.StringVar(&opts.Language, "lang", "", "month label language (BCP 47 tag)")
	flagBorder := fs.String("border", "thick", "bar border style (thin, thick or double)")
	flagTitle := fs.String("title", "", "document title")
	flagAuthor := fs.String("author", "", "document author")

	app := ffcli.Command{Name: "gantt2xlsx", FlagSet: fs,
		ShortUsage: "gantt2xlsx [flags] document.json | Name:tasks.csv...",
		Exec: func(ctx context.Context, args []string) error {
			if err := opts.Border.UnmarshalText([]byte(*flagBorder)); err != nil {
				return err
			}
			opts.MinDaysForMonth = &minDays
			meta := gantt.Meta{Author: *flagAuthor, Title: *flagTitle}

			var sheets []gantt.Sheet
			if len(args) == 1 && (args[0] == "-" || strings.HasSuffix(args[0], ".json")) {
				doc, err := readDocument(args[0])
				if err != nil {
					return err
				}
				sheets = doc.Sheets
				if doc.Meta != nil {
					meta = *doc.Meta
				}
				if doc.Options != nil {
					o := *doc.Options
					o.Logger = logger
					opts = o
				}
			} else {
				for i, arg := range args {
					name, fn := fmt.Sprintf("Sheet%d", i+1), arg
					if i := strings.IndexByte(arg, ':'); i >= 0 {
						name, fn = arg[:i], arg[i+1:]
					} else {
						name = strings.TrimSuffix(filepath.Base(fn), ".csv")
					}
					tasks, warnings, err := gantt.ReadTasksCSV(fn, *flagEnc)
					if err != nil {
						return fmt.Errorf("%q: %w", fn, err)
					}
					for _, w := range warnings {
						logger.Warn("read", "file", fn, "warning", w)
					}
					sheets = append(sheets, gantt.Sheet{Name: name, Tasks: tasks})
				}
			}

			out := *flagOut
			if out == "" && meta.OutputFileName != "" {
				out = meta.OutputFileName
			}
			fh := os.Stdout
			if !(out == "" || out == "-") {
				var err error
				if fh, err = os.Create(out); err != nil {
					return err
				}
			}
			defer fh.Close()
			var sink gantt.Writer
			if strings.HasSuffix(out, ".ods") {
				sink = ods.NewWriter(fh)
			} else {
				sink = xlsx.NewWriter(fh)
			}
			res := gantt.Render(sink, sheets, &meta, &opts)
			if res.Code != gantt.CodeOK {
				return fmt.Errorf("render (code %d): %s", res.Code, res.ErrorMessage)
			}
			logger.Info("written", "file", out, "sheets", len(sheets),
				"warnings", len(res.Warnings))
			return fh.Close()
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

func readDocument(fn string) (*gantt.Document, error) {
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return nil, err
		}
		defer fh.Close()
	}
	return gantt.ReadDocument(fh)
}
