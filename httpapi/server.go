// Package httpapi serves address conversion, stylesheet rewriting and
// server-side block fetching over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/ipfsurl"
	"github.com/2096779623/xLog/storage"
)

// MaxStylesheetBytes bounds POST /api/stylesheet bodies.
const MaxStylesheetBytes = 1 << 20

// Server holds the HTTP handler dependencies.
type Server struct {
	normalizer *ipfsurl.Normalizer
	cas        storage.CAS
	log        *slog.Logger
}

// New creates a new API server. cas may be nil, in which case block routes
// answer 503.
func New(n *ipfsurl.Normalizer, cas storage.CAS, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{normalizer: n, cas: cas, log: log}
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/address", s.handleAddress)
		r.Post("/stylesheet", s.handleStylesheet)
	})
	r.Get("/ipfs/{cid}", s.handleBlock)
	return r
}

// AddressResponse is the response for GET /api/address.
type AddressResponse struct {
	Input      string `json:"input"`
	IPFS       string `json:"ipfs"`
	Gateway    string `json:"gateway"`
	CID        string `json:"cid"`
	Recognized bool   `json:"recognized"`
}

// handleAddress handles GET /api/address?url=<value>
func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	in := r.URL.Query().Get("url")
	if in == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, AddressResponse{
		Input:      in,
		IPFS:       s.normalizer.ToIPFS(in),
		Gateway:    s.normalizer.ToGateway(in),
		CID:        s.normalizer.ToCID(in),
		Recognized: s.normalizer.IsIPFS(in),
	})
}

// handleStylesheet handles POST /api/stylesheet
// Supports ?format=data-url to return a data: URL instead of CSS text.
func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxStylesheetBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "stylesheet too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "css":
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = io.WriteString(w, s.normalizer.RewriteStylesheet(string(body)))
	case "data-url":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, s.normalizer.StylesheetDataURL(string(body)))
	default:
		http.Error(w, "format must be css or data-url", http.StatusBadRequest)
	}
}

// handleBlock handles GET /ipfs/{cid}
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	if s.cas == nil {
		http.Error(w, "block storage not configured", http.StatusServiceUnavailable)
		return
	}
	id, err := cidutil.Decode(chi.URLParam(r, "cid"))
	if err != nil {
		http.Error(w, "invalid cid", http.StatusBadRequest)
		return
	}

	etag := `"` + id.String() + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	b, err := s.cas.Get(r.Context(), id)
	if err != nil {
		code := statusFor(err)
		if code >= 500 {
			s.log.WarnContext(r.Context(), "block fetch failed",
				slog.String("cid", id.String()), slog.Any("error", err))
		}
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(b))
	w.Header().Set("Cache-Control", "public, max-age=29030400, immutable")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func statusFor(err error) int {
	switch {
	case storage.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidCID):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "http request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
