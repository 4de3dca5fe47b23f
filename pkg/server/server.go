package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stagepulse/stagepulse/internal/store"
	"github.com/stagepulse/stagepulse/pkg/engine"
	"github.com/stagepulse/stagepulse/pkg/ingest"
)

// Server provides the HTTP API.
type Server struct {
	store   store.Store
	engine  *engine.Engine
	sources []ingest.Source
	port    int
}

// New creates a new HTTP server.
func New(s store.Store, e *engine.Engine, sources []ingest.Source, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:   s,
		engine:  e,
		sources: sources,
		port:    port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/productions", s.handleProductions)
	mux.HandleFunc("/api/v1/scores", s.handleScores)
	mux.HandleFunc("/api/v1/collect", s.handleCollect)
	mux.HandleFunc("/api/v1/buzz", s.handleBuzz)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("stagepulse server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProductions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	productions, err := s.store.ListProductions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.store.ListScorecardRows(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	byID := make(map[string]store.ScorecardRow, len(rows))
	for _, row := range rows {
		byID[row.ProductionID] = row
	}

	type productionInfo struct {
		engine.Production
		Composite  *float64 `json:"composite,omitempty"`
		Confidence string   `json:"confidence,omitempty"`
	}

	infos := make([]productionInfo, 0, len(productions))
	for _, p := range productions {
		info := productionInfo{Production: p}
		if row, ok := byID[p.ID]; ok {
			info.Composite = row.Composite
			info.Confidence = row.Confidence
		}
		infos = append(infos, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  infos,
		"count": len(infos),
	})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	slug := r.URL.Query().Get("production")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "production query parameter required"})
		return
	}

	ctx := r.Context()
	production, err := s.store.GetProductionBySlug(ctx, slug)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	reviews, err := s.store.ListReviews(ctx, production.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	audience, err := s.store.ListAudienceRatings(ctx, production.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	threads, err := s.store.ListBuzzThreads(ctx, production.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	card := s.engine.Score(engine.Inputs{
		Production: *production,
		Reviews:    reviews,
		Audience:   audience,
		Threads:    threads,
	}, time.Now().UTC())

	if err := s.store.SaveScorecard(ctx, card); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	ctx := r.Context()
	results := make(map[string]int)
	var errs []string

	for _, src := range s.sources {
		records, err := src.Collect(ctx)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		if err := s.store.UpsertReviews(ctx, records.Reviews); err != nil {
			errs = append(errs, fmt.Sprintf("%s store: %v", src.Name(), err))
			continue
		}
		if err := s.store.UpsertAudienceRatings(ctx, records.Audience); err != nil {
			errs = append(errs, fmt.Sprintf("%s store: %v", src.Name(), err))
			continue
		}
		results[src.Name()] = len(records.Reviews) + len(records.Audience)
	}

	resp := map[string]any{"collected": results}
	if len(errs) > 0 {
		resp["errors"] = errs
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleBuzz accepts discussion-thread records pushed by external tooling;
// there is no public API to poll for them.
func (s *Server) handleBuzz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var threads []engine.BuzzThread
	if err := json.NewDecoder(r.Body).Decode(&threads); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	now := time.Now().UTC()
	for i := range threads {
		if threads[i].CollectedAt.IsZero() {
			threads[i].CollectedAt = now
		}
	}

	if err := s.store.UpsertBuzzThreads(r.Context(), threads); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"accepted": len(threads)})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
