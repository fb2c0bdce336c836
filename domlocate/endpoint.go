package domlocate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/domtrail/kit"
)

// LocateEndpoint adapts Locate to kit.Endpoint. The request is a
// *LocateRequest.
func (s *Service) LocateEndpoint() kit.Endpoint {
	return kit.Logging(s.logger, "locate")(func(ctx context.Context, req any) (any, error) {
		r, ok := req.(*LocateRequest)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected request %T", ErrBadRequest, req)
		}
		return s.Locate(ctx, *r)
	})
}

// SessionEndpoint adapts NewSessionID to kit.Endpoint.
func (s *Service) SessionEndpoint() kit.Endpoint {
	return kit.Logging(s.logger, "session")(func(ctx context.Context, _ any) (any, error) {
		resp := s.NewSessionID()
		s.logger.Log(ctx, slog.LevelInfo, "domlocate: session issued", "session", resp.SessionID)
		return resp, nil
	})
}
