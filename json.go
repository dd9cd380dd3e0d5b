// Copyright 2026, Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gantt

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Date is a time.Time that decodes from ISO-like JSON strings. Garbage
// decodes to the zero (invalid) sentinel instead of failing the whole
// document; the layout pass reports such tasks.
type Date struct{ time.Time }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		d.Time = time.Time{}
		return nil
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

type taskJSON struct {
	Name  string `json:"name"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
	Color string `json:"color,omitempty"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var aux taskJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Task{Name: aux.Name, Start: aux.Start.Time, End: aux.End.Time,
		Color: aux.Color}
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{Name: t.Name, Start: Date{t.Start},
		End: Date{t.End}, Color: t.Color})
}

// Document is the whole-call JSON input: sheets plus optional document
// metadata and layout options.
type Document struct {
	Sheets  []Sheet  `json:"sheets"`
	Meta    *Meta    `json:"meta,omitempty"`
	Options *Options `json:"options,omitempty"`
}

// ReadDocument decodes a Document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
