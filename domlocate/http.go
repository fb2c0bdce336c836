package domlocate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/domtrail/kit"
	"github.com/hazyhaar/domtrail/shield"
)

// maxBody caps request documents.
const maxBody = 8 << 20

// Handler returns the HTTP API:
//
//	POST /v1/locate   LocateRequest → LocateResponse
//	POST /v1/session  → SessionResponse
//	GET  /healthz
//	GET  /metrics     (when the service has metrics)
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	for _, mw := range shield.APIStack(maxBody) {
		r.Use(mw)
	}

	locate := s.LocateEndpoint()
	session := s.SessionEndpoint()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/locate", func(w http.ResponseWriter, r *http.Request) {
			var req LocateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				shield.GetLogger(r.Context()).Debug("domlocate: undecodable request", "error", err)
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(w, http.StatusRequestEntityTooLarge, err)
					return
				}
				writeError(w, http.StatusBadRequest, err)
				return
			}
			ctx := r.Context()
			if req.SessionID != "" {
				ctx = kit.WithSessionID(ctx, req.SessionID)
			}
			resp, err := locate(ctx, &req)
			if err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Post("/session", func(w http.ResponseWriter, r *http.Request) {
			resp, err := session(r.Context(), nil)
			if err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTargetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAmbiguousTarget):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
