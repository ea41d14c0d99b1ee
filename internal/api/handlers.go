package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/export"
	"github.com/magicplate/outreach/internal/lead"
	"github.com/magicplate/outreach/internal/outreach"
)

type leadsResponse struct {
	Source      string      `json:"source"`
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Count       int         `json:"count"`
	Leads       []lead.Lead `json:"leads"`
}

type stateResponse struct {
	EmailedCount int                            `json:"emailed_count"`
	LastRun      *time.Time                     `json:"last_run"`
	Emailed      map[string]outreach.SendRecord `json:"emailed"`
}

// getLeads serves the newest export file as-is.
func (s *Server) getLeads(w http.ResponseWriter, _ *http.Request) {
	path := export.LatestJSON(s.dataDir)
	if path == "" {
		writeError(w, http.StatusNotFound, "no lead export found")
		return
	}
	doc, err := export.ReadJSON(path)
	if err != nil {
		s.logger.Warn("read export", zap.String("path", path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read export")
		return
	}
	writeJSON(w, http.StatusOK, leadsResponse{
		Source:      path,
		RunID:       doc.RunID,
		GeneratedAt: doc.GeneratedAt,
		Count:       doc.Count,
		Leads:       doc.Leads,
	})
}

// getState serves the outreach state. A missing state file is just an empty
// state, matching how the pipeline itself loads it.
func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	st := outreach.LoadState(outreach.StatePath(s.dataDir))
	writeJSON(w, http.StatusOK, stateResponse{
		EmailedCount: len(st.Emailed),
		LastRun:      st.LastRun,
		Emailed:      st.Emailed,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
