// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// Header is the column row matching Record.Fields.
var Header = []string{"Metric", "N", "Threads", "Min", "Avg", "StdDev"}

// Record is one benchmark result line:
// metric_name,N,worker_count,min_ms,avg_ms,stddev_ms.
type Record struct {
	Metric  string
	N       int
	Workers int
	Stats   Stats
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(Millis(d), 'g', 6, 64)
}

// Fields returns the CSV fields of r.
func (r Record) Fields() []string {
	return []string{
		r.Metric,
		strconv.Itoa(r.N),
		strconv.Itoa(r.Workers),
		formatMillis(r.Stats.Min),
		formatMillis(r.Stats.Mean),
		formatMillis(r.Stats.StdDev),
	}
}

// Writer emits Records as CSV, flushing after every row so that output of a
// long sweep can be followed live.
type Writer struct {
	w *csv.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteHeader writes the Header row.
func (w *Writer) WriteHeader() error {
	return w.writeRow(Header)
}

// Write writes one record.
func (w *Writer) Write(r Record) error {
	return w.writeRow(r.Fields())
}

func (w *Writer) writeRow(row []string) error {
	if err := w.w.Write(row); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}
