// Package msgsource abstracts where raw mobile-money messages come from and
// filters them down to the senders the pipeline trusts.
package msgsource

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"mpesa-insights/internal/logging"
)

// RawMessage is one SMS-style message as delivered by the message source.
type RawMessage struct {
	Sender          string `csv:"sender"`
	Body            string `csv:"body"`
	TimestampMillis int64  `csv:"timestamp_millis"`
}

// Timestamp converts the millisecond epoch to a time.Time.
func (m RawMessage) Timestamp() time.Time {
	return time.UnixMilli(m.TimestampMillis)
}

// Source supplies the batch of raw messages for one sync run. Read must
// honor context cancellation and may be retried; implementations should not
// mutate state on read.
type Source interface {
	Read(ctx context.Context) ([]RawMessage, error)
}

// CSVSource reads messages from a CSV export with sender, body and
// timestamp_millis columns.
type CSVSource struct {
	path   string
	logger logging.Logger
}

// NewCSVSource creates a Source over a CSV file.
func NewCSVSource(path string, logger logging.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Read loads the full message batch from the CSV file.
func (s *CSVSource) Read(ctx context.Context) ([]RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening message file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close message file")
		}
	}()

	var messages []RawMessage
	if err := gocsv.UnmarshalFile(file, &messages); err != nil {
		return nil, fmt.Errorf("error parsing message file: %w", err)
	}

	s.logger.Info("Read raw messages",
		logging.Field{Key: "file", Value: s.path},
		logging.Field{Key: "count", Value: len(messages)})

	return messages, nil
}

// SenderFilter keeps only messages whose sender matches the allow-list by
// case-insensitive containment.
type SenderFilter struct {
	allowed []string
}

// NewSenderFilter creates a filter over the configured sender allow-list.
func NewSenderFilter(senders []string) *SenderFilter {
	allowed := make([]string, 0, len(senders))
	for _, sender := range senders {
		trimmed := strings.ToUpper(strings.TrimSpace(sender))
		if trimmed != "" {
			allowed = append(allowed, trimmed)
		}
	}
	return &SenderFilter{allowed: allowed}
}

// Matches reports whether the sender is on the allow-list.
func (f *SenderFilter) Matches(sender string) bool {
	candidate := strings.ToUpper(strings.TrimSpace(sender))
	for _, allowed := range f.allowed {
		if strings.Contains(candidate, allowed) {
			return true
		}
	}
	return false
}

// Apply returns only the messages from allowed senders.
func (f *SenderFilter) Apply(messages []RawMessage) []RawMessage {
	var result []RawMessage
	for _, message := range messages {
		if f.Matches(message.Sender) {
			result = append(result, message)
		}
	}
	return result
}
