package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/busylight-core/internal/light"
	"github.com/nerrad567/busylight-core/internal/metrics"
	"github.com/nerrad567/busylight-core/internal/rules"
)

// ruleRequest is the create/update payload for a rule.
type ruleRequest struct {
	Name       *string           `json:"name"`
	Enabled    *bool             `json:"enabled"`
	Expression *rules.Expression `json:"expression"`
	Action     *light.Action     `json:"action"`
	SortOrder  *int              `json:"sort_order"`
}

// handleListRules returns all rules in evaluation order.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	list, err := s.rules.List(r.Context())
	if err != nil {
		s.logger.Error("listing rules", "error", err)
		writeInternalError(w, "failed to list rules")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rules": list,
		"count": len(list),
	})
}

// handleGetRule returns a single rule by ID.
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rule, err := s.rules.Get(r.Context(), id)
	if err != nil {
		s.writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// handleCreateRule creates a new rule and re-evaluates the engine.
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == nil || req.Action == nil {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "name and action are required")
		return
	}

	rule := &rules.Rule{
		Name:    *req.Name,
		Enabled: true,
		Action:  *req.Action,
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.Expression != nil {
		rule.Expression = *req.Expression
	}
	if req.SortOrder != nil {
		rule.SortOrder = *req.SortOrder
	}

	if err := s.rules.Create(r.Context(), rule); err != nil {
		s.writeRuleError(w, err)
		return
	}

	s.engine.RulesChanged(r.Context())
	s.broadcastState()
	writeJSON(w, http.StatusCreated, rule)
}

// handleUpdateRule applies a partial update to an existing rule.
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rule, err := s.rules.Get(r.Context(), id)
	if err != nil {
		s.writeRuleError(w, err)
		return
	}

	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.Expression != nil {
		rule.Expression = *req.Expression
	}
	if req.Action != nil {
		rule.Action = *req.Action
	}
	if req.SortOrder != nil {
		rule.SortOrder = *req.SortOrder
	}

	if err := s.rules.Update(r.Context(), rule); err != nil {
		s.writeRuleError(w, err)
		return
	}

	s.engine.RulesChanged(r.Context())
	s.broadcastState()
	writeJSON(w, http.StatusOK, rule)
}

// handleDeleteRule removes a rule and its activity ledger.
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.rules.Delete(r.Context(), id); err != nil {
		s.writeRuleError(w, err)
		return
	}

	s.metrics.Delete(r.Context(), id)
	s.engine.RulesChanged(r.Context())
	s.broadcastState()
	w.WriteHeader(http.StatusNoContent)
}

// handleRuleMetrics returns the activity summary for one rule, with both
// raw millisecond figures and human-readable durations.
func (s *Server) handleRuleMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.rules.Get(r.Context(), id); err != nil {
		s.writeRuleError(w, err)
		return
	}

	summary, _ := s.metrics.Summary(id, time.Now().UnixMilli())
	writeJSON(w, http.StatusOK, map[string]any{
		"rule_id":         id,
		"total_active_ms": summary.TotalActiveMS,
		"per_day_ms":      summary.PerDayMS,
		"per_month_ms":    summary.PerMonthMS,
		"per_year_ms":     summary.PerYearMS,
		"total_active":    metrics.FormatDuration(summary.TotalActiveMS),
		"per_day":         metrics.FormatDuration(summary.PerDayMS),
		"per_month":       metrics.FormatDuration(summary.PerMonthMS),
		"per_year":        metrics.FormatDuration(summary.PerYearMS),
	})
}

// writeRuleError maps rule registry errors to HTTP responses.
func (s *Server) writeRuleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrRuleNotFound):
		writeNotFound(w, "rule not found")
	case errors.Is(err, rules.ErrRuleExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, "a rule with that name already exists")
	case errors.Is(err, rules.ErrInvalidRule),
		errors.Is(err, rules.ErrInvalidName),
		errors.Is(err, rules.ErrInvalidExpression),
		errors.Is(err, rules.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		s.logger.Error("rule operation failed", "error", err)
		writeInternalError(w, "rule operation failed")
	}
}
