package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"sea-game/internal/leaderboard"
	"sea-game/internal/mission"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 4 << 10

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle string `json:"handle"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	s, err := h.engine.Launch(req.Handle)
	switch {
	case errors.Is(err, mission.ErrHandleRequired):
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, mission.ErrNotIntro):
		writeError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.log.Error().Err(err).Msg("launch failed")
		writeError(w, "Launch failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, s)
}

func (h *routerHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Reset())
}

func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	var in mission.Input
	if err := decodeBody(r, &in); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	h.engine.SetInput(in)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	a, err := mission.ParseAction(req.Action)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.engine.TriggerAction(a)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "Rendering disabled", http.StatusNotFound)
		return
	}

	// Render into a buffer so an encode failure can still return a 500.
	start := time.Now()
	var buf bytes.Buffer
	if err := h.renderer.EncodePNG(&buf, h.engine.Snapshot()); err != nil {
		h.log.Error().Err(err).Msg("frame render failed")
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	records, err := h.scores.Top(r.Context(), leaderboard.TopN)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch leaderboard")
		writeError(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []leaderboard.Record{}
	}
	h.engine.SetLeaderboard(records)
	writeJSON(w, map[string]any{"records": records})
}

func (h *routerHandlers) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var sub leaderboard.Submission
	if err := decodeBody(r, &sub); err != nil {
		writeError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	rec, err := h.scores.Submit(r.Context(), sub)
	if errors.Is(err, leaderboard.ErrInvalidSubmission) {
		writeError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to submit score")
		writeError(w, "Failed to submit score", http.StatusInternalServerError)
		return
	}

	// Refresh the copy inside the mission state
	if top, err := h.scores.Top(r.Context(), leaderboard.TopN); err == nil {
		h.engine.SetLeaderboard(top)
	}

	resp := map[string]any{"record": rec}
	if ranker, ok := h.scores.(leaderboard.Ranker); ok {
		if rank := ranker.Rank(rec.ID); rank > 0 {
			resp["rank"] = rank
		}
	}
	writeJSONStatus(w, http.StatusCreated, resp)
}

// Helper functions (package-level for reuse)

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSONStatus(w, code, map[string]string{"error": message})
}
