// Package sink defines output backends for capture records.
package sink

import (
	"context"

	"github.com/hazyhaar/domtrail/recorder/capture"
)

// Sink delivers records to a backend (stdout, webhook, in-process callback).
type Sink interface {
	Send(ctx context.Context, rec capture.Record) error
	Close() error
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
