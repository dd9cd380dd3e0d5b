// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command gantt2pdf renders a Gantt task list as a PDF table
// (task, start, end, days).
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/gantt"
	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
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
	alternateColor := Color{Color: color.Color{
		Red:   230,
		Green: 230,
		Blue:  230,
	}}

	fs := flag.NewFlagSet("gantt2pdf", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", gantt.EncName, "csv charset name")
	flagOut := fs.String("o", "", "output file name (default input file + .pdf)")
	flagColor := fs.String("alternate-color", alternateColor.String(), "alternate color")
	flagLandscape := fs.Bool("L", false, "landscape orientation (default: portrait)")
	flagFontSize := fs.Float64("f", 8, "font size")

	app := ffcli.Command{Name: "gantt2pdf", FlagSet: fs,
		ShortUsage: "gantt2pdf [flags] tasks.csv",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			tasks, warnings, err := gantt.ReadTasksCSV(args[0], *flagEnc)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				logger.Warn("read", "file", args[0], "warning", w)
			}
			if len(tasks) == 0 {
				return gantt.ErrNoTasks
			}

			headers := []string{"Task", "Start", "End", "Days"}
			contents := make([][]string, len(tasks))
			for i, t := range tasks {
				start, end := t.Start, t.End
				if end.Before(start) {
					start, end = end, start
				}
				contents[i] = []string{
					t.Name,
					start.Format("2006-01-02"),
					end.Format("2006-01-02"),
					strconv.Itoa(int(end.Sub(start).Hours()/24) + 1),
				}
			}

			orientation := consts.Portrait
			if *flagLandscape {
				orientation = consts.Landscape
			}
			m := pdf.NewMaroto(orientation, consts.A4)
			gridSize := []uint{6, 2, 2, 2}
			m.TableList(headers, contents, props.TableList{
				HeaderProp: props.TableListContent{
					Family:    consts.Arial,
					Style:     consts.Bold,
					Size:      *flagFontSize * 1.375,
					GridSizes: gridSize,
				},
				ContentProp: props.TableListContent{
					Family:    consts.Courier,
					Style:     consts.Normal,
					Size:      *flagFontSize,
					GridSizes: gridSize,
				},
				Align:                consts.Center,
				AlternatedBackground: &alternateColor.Color,
				HeaderContentSpace:   *flagFontSize * 1.2,
				Line:                 false,
			})
			out := *flagOut
			if out == "" && args[0] != "" && args[0] != "-" {
				out = strings.TrimSuffix(args[0], ".csv") + ".pdf"
			}
			if out == "" || out == "-" {
				buf, err := m.Output()
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(buf.Bytes())
				return err
			}
			return m.OutputFileAndClose(out)
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		return err
	}
	if err := alternateColor.Parse(*flagColor); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

type Color struct {
	color.Color
}

func (c *Color) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.Red, c.Green, c.Blue)
}
func (c *Color) Parse(s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) < 3 {
		return fmt.Errorf("want RRGGBB, got %q", s)
	}
	c.Red, c.Green, c.Blue = int(b[0]), int(b[1]), int(b[2])
	return nil
}
