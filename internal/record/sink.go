package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

// Sink is the durable append-only destination for one recording session.
// Implementations write their header before the first record.
type Sink interface {
	// WriteSample appends one record and makes it durable before returning.
	WriteSample(s telemetry.Sample) error

	// Close flushes and releases the sink. Closing twice is safe.
	Close() error
}

// SinkOpener creates the sink for a session starting at the given time.
type SinkOpener func(start time.Time) (Sink, error)

// CSVSink writes one row per sample: an ISO-8601 timestamp followed by one
// column per channel in canonical order. Each row is flushed as it is
// written so a crash loses at most the in-flight record.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
	closed bool
}

// OpenCSV creates a session file named from the start time (one file per
// session) in dir and writes the header row.
func OpenCSV(dir string, start time.Time) (*CSVSink, error) {
	name := fmt.Sprintf("telemetry_%s.csv", start.Format("20060102_150405"))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create session file: %w", err)
	}

	s := &CSVSink{file: f, writer: csv.NewWriter(f)}
	if err := s.writer.Write(csvHeader()); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush header: %w", err)
	}
	return s, nil
}

// CSVOpener returns a SinkOpener that creates session files in dir.
func CSVOpener(dir string) SinkOpener {
	return func(start time.Time) (Sink, error) {
		return OpenCSV(dir, start)
	}
}

// Name returns the path of the session file.
func (s *CSVSink) Name() string {
	return s.file.Name()
}

// WriteSample appends one row and flushes it.
func (s *CSVSink) WriteSample(sample telemetry.Sample) error {
	if s.closed {
		return fmt.Errorf("sink closed")
	}
	row := make([]string, 0, 1+len(telemetry.Channels))
	row = append(row, sample.Time.Format(time.RFC3339Nano))
	for _, ch := range telemetry.Channels {
		row = append(row, strconv.FormatFloat(sample.Value(ch), 'f', -1, 64))
	}
	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}
	return nil
}

// Close flushes and closes the session file.
func (s *CSVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.writer.Flush()
	flushErr := s.writer.Error()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("flush session file: %w", flushErr)
	}
	return nil
}

func csvHeader() []string {
	header := make([]string, 0, 1+len(telemetry.Channels))
	header = append(header, "timestamp")
	for _, ch := range telemetry.Channels {
		header = append(header, ch.String())
	}
	return header
}
