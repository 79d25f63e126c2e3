// Package report holds the collaborators that consume replication records:
// output sinks and the cross-replication summary. Nothing here feeds back
// into the simulation.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plant-sim/sim/replication"
)

// Sink consumes one record per replication.
type Sink interface {
	Write(rec replication.Record) error
}

// JSONLinesSink writes each record as one JSON object per line.
type JSONLinesSink struct {
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	count  int
}

// NewJSONLinesSink writes to w. Close flushes but does not close w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	bw := bufio.NewWriter(w)
	return &JSONLinesSink{w: bw, enc: json.NewEncoder(bw)}
}

// CreateJSONLinesFile truncates or creates path and writes records to it.
func CreateJSONLinesFile(path string) (*JSONLinesSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	s := NewJSONLinesSink(f)
	s.closer = f
	return s, nil
}

// Write encodes rec as a single line.
func (s *JSONLinesSink) Write(rec replication.Record) error {
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding replication %d: %w", rec.Replication, err)
	}
	s.count++
	return nil
}

// Count returns the number of records written.
func (s *JSONLinesSink) Count() int {
	return s.count
}

// Close flushes buffered records and closes the underlying file, if any.
func (s *JSONLinesSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flushing records: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Drain pulls every record from seq and writes it to each sink in order.
// It stops at the first simulation or sink error and returns the number of
// records fully written.
func Drain(seq iter.Seq2[replication.Record, error], sinks ...Sink) (int, error) {
	written := 0
	for rec, err := range seq {
		if err != nil {
			return written, err
		}
		for _, s := range sinks {
			if err := s.Write(rec); err != nil {
				return written, err
			}
		}
		written++
	}
	logrus.Debugf("drained %d records into %d sinks", written, len(sinks))
	return written, nil
}
