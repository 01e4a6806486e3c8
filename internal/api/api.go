package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"regen/internal/calls"
	"regen/internal/lcg"
	"regen/internal/logger"
	"regen/internal/reverser"
	"regen/internal/solvesvc"
	"regen/internal/store"
)

// HealthResponse represents health check response.
type HealthResponse struct {
	Status   string             `json:"status"`
	Database store.HealthStatus `json:"database"`
}

// CallRequest is the wire form of one RandomCall in a solve request:
// the typed fields of exactly one variant are set, naming it.
type CallRequest struct {
	Filter bool `json:"filter,omitempty"`
	Skip   int  `json:"skip,omitempty"`

	Boolean      *bool    `json:"boolean,omitempty"`
	IntMin       *int32   `json:"int_min,omitempty"`
	IntMax       *int32   `json:"int_max,omitempty"`
	IntRangeMin  *int32   `json:"int_range_min,omitempty"`
	IntRangeMax  *int32   `json:"int_range_max,omitempty"`
	IntBound     *int32   `json:"int_bound,omitempty"`
	LongMin      *int64   `json:"long_min,omitempty"`
	LongMax      *int64   `json:"long_max,omitempty"`
	FloatMin     *float32 `json:"float_min,omitempty"`
	FloatMax     *float32 `json:"float_max,omitempty"`
	DoubleMin    *float64 `json:"double_min,omitempty"`
	DoubleMax    *float64 `json:"double_max,omitempty"`
	MinExclusive bool     `json:"min_exclusive,omitempty"`
	MaxExclusive bool     `json:"max_exclusive,omitempty"`
}

// SolveRequest is the body of POST /api/solve: a label for the
// transcript and its ordered calls.
type SolveRequest struct {
	Label string        `json:"label"`
	Calls []CallRequest `json:"calls"`
}

// SolveResponse is the body returned by POST /api/solve.
type SolveResponse struct {
	RunID      int64    `json:"run_id"`
	Candidates []string `json:"candidates"`
	DurationMs int64    `json:"duration_ms"`
}

// toRandomCall translates one wire CallRequest into the RandomCall it
// names, or nil if the entry is a bare skip with no call attached.
func toRandomCall(c CallRequest) calls.RandomCall {
	switch {
	case c.Boolean != nil:
		return calls.BooleanCall{Value: *c.Boolean}
	case c.IntBound != nil:
		return calls.IntegerRangeCall{Bound: *c.IntBound, Min: valOr32(c.IntRangeMin), Max: valOr32(c.IntRangeMax)}
	case c.IntMin != nil || c.IntMax != nil:
		return calls.IntegerCall{Min: valOr32(c.IntMin), Max: valOr32(c.IntMax)}
	case c.LongMin != nil || c.LongMax != nil:
		return calls.LongCall{Min: valOr64(c.LongMin), Max: valOr64(c.LongMax)}
	case c.FloatMin != nil || c.FloatMax != nil:
		return calls.FloatCall{
			Min: valOrF32(c.FloatMin), Max: valOrF32(c.FloatMax),
			MinExclusive: c.MinExclusive, MaxExclusive: c.MaxExclusive,
		}
	case c.DoubleMin != nil || c.DoubleMax != nil:
		return calls.DoubleCall{
			Min: valOrF64(c.DoubleMin), Max: valOrF64(c.DoubleMax),
			MinExclusive: c.MinExclusive, MaxExclusive: c.MaxExclusive,
		}
	default:
		return nil
	}
}

func valOr32(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}

func valOr64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func valOrF32(v *float32) float32 {
	if v == nil {
		return 0
	}
	return *v
}

func valOrF64(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Handler holds HTTP handler dependencies.
type Handler struct {
	svc *solvesvc.Service
	db  store.Database
	log *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *solvesvc.Service, database store.Database, log *logger.Logger) *Handler {
	return &Handler{svc: svc, db: database, log: log}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.serveIndex)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/stats", h.handleStats)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/runs", h.handleRuns)
	mux.HandleFunc("/api/logs", h.handleLogs)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/index.html")
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbHealth := h.db.Health(ctx)

	status := "healthy"
	if !dbHealth.Connected {
		status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: status, Database: dbHealth})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.db.GetStats(ctx)
	if err != nil {
		h.log.Error("failed to get stats: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	runs, err := h.db.ListRuns(ctx, 50)
	if err != nil {
		h.log.Error("failed to list runs: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Label == "" {
		req.Label = "unlabeled"
	}

	result, err := h.svc.Solve(r.Context(), solveRequestToService(req))
	if err != nil {
		h.log.Error("solve failed: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	candidates := make([]string, len(result.Candidates))
	for i, c := range result.Candidates {
		candidates[i] = big.NewInt(c).String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SolveResponse{
		RunID:      result.RunID,
		Candidates: candidates,
		DurationMs: result.Duration.Milliseconds(),
	})
}

func solveRequestToService(req SolveRequest) solvesvc.Request {
	return solvesvc.Request{
		Label: req.Label,
		LCG:   lcg.Java,
		Build: func(rv *reverser.Reverser) {
			for _, c := range req.Calls {
				if c.Skip > 0 {
					rv.Skip(c.Skip)
					continue
				}
				call := toRandomCall(c)
				if call == nil {
					continue
				}
				if c.Filter {
					rv.AddFilter(call)
				} else {
					rv.AddCall(call)
				}
			}
		},
	}
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.log.GetEntries())
}
