package sink

import (
	"context"

	"github.com/hazyhaar/domtrail/recorder/capture"
)

// RecordFunc is called for each record.
type RecordFunc func(ctx context.Context, rec capture.Record) error

// Callback delivers records as in-process function calls.
type Callback struct {
	fn RecordFunc
}

// NewCallback creates a Callback sink. fn may be nil.
func NewCallback(fn RecordFunc) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, rec capture.Record) error {
	if c.fn == nil {
		return nil
	}
	return c.fn(ctx, rec)
}

func (c *Callback) Close() error { return nil }
