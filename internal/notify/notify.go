package notify

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Sink receives fire-and-forget settlement events. Implementations must
// never block settlement; callers log and discard errors.
type Sink interface {
	Notify(ctx context.Context, event string, payload map[string]any) error
}

// LogSink writes events to a logger. It stands in for outbound email/chat
// delivery, which is an external collaborator.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, event string, payload map[string]any) error {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(fmt.Sprint(payload[k]))
	}
	s.logger.Printf("notify event=%s%s", event, b.String())
	return nil
}
