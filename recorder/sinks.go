package recorder

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hazyhaar/domtrail/recorder/internal/sink"
)

// Sink is the output interface for records.
type Sink = sink.Sink

// RecordFunc is called for each record by a callback sink.
type RecordFunc = sink.RecordFunc

// NewStdoutSink creates a JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}

// NewCallbackSink creates an in-process sink.
func NewCallbackSink(fn RecordFunc) Sink {
	return sink.NewCallback(fn)
}

// SinksFromConfig builds the sinks listed in cfg. stdout writes to w.
func SinksFromConfig(cfg []SinkConfig, w io.Writer, logger *slog.Logger) ([]Sink, error) {
	out := make([]Sink, 0, len(cfg))
	for _, sc := range cfg {
		switch sc.Type {
		case "stdout":
			out = append(out, NewStdoutSink(w))
		case "webhook":
			if sc.URL == "" {
				return nil, fmt.Errorf("recorder: webhook sink without url")
			}
			out = append(out, NewWebhookSink(sc.URL, logger))
		default:
			return nil, fmt.Errorf("recorder: unknown sink type %q", sc.Type)
		}
	}
	return out, nil
}
