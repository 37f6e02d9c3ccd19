package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"chatlist/internal/apperr"
	"chatlist/internal/export"
	"chatlist/internal/models"
	"chatlist/internal/services"
)

type dispatchRequest struct {
	Prompt          string   `json:"prompt"`
	Tags            []string `json:"tags,omitempty"`
	PromptID        uint     `json:"promptId,omitempty"`
	ModelIDs        []uint   `json:"modelIds,omitempty"`
	PersistFailures bool     `json:"persistFailures,omitempty"`
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	report, err := s.services.Dispatches.Dispatch(r.Context(), req.Prompt, services.DispatchOptions{
		Tags:            req.Tags,
		PromptID:        req.PromptID,
		ModelIDs:        req.ModelIDs,
		PersistFailures: req.PersistFailures,
	})
	if err != nil {
		s.logger.Error("dispatch failed", zap.Error(err))
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

type improveRequest struct {
	Prompt  string `json:"prompt"`
	ModelID uint   `json:"modelId"`
	Adapt   bool   `json:"adapt,omitempty"`
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req improveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()
	model, err := s.services.Models.Get(ctx, req.ModelID)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	timeout := s.services.Settings.DispatchTimeout(ctx)

	if req.Adapt {
		adaptations, err := s.services.Improver.Adapt(ctx, *model, req.Prompt, timeout)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, adaptations)
		return
	}
	improvement, err := s.services.Improver.Improve(ctx, *model, req.Prompt, timeout)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, improvement)
}

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	if tag := q.Get("tag"); tag != "" {
		prompts, err := s.services.Queries.PromptsByTagContains(ctx, tag)
		s.respondList(w, prompts, err)
		return
	}
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		prompts, err := s.services.Queries.PromptsInDateRange(ctx, from, to)
		s.respondList(w, prompts, err)
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if search := q.Get("q"); search != "" {
		prompts, err := s.services.Prompts.Search(ctx, search, limit)
		s.respondList(w, prompts, err)
		return
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	prompts, err := s.services.Prompts.List(ctx, limit, offset)
	s.respondList(w, prompts, err)
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	prompt, err := s.services.Prompts.Get(r.Context(), id)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, prompt)
}

func (s *Server) handleUpdatePromptTags(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.services.Prompts.UpdateTags(r.Context(), id, body.Tags); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.services.Prompts.Delete(r.Context(), id); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleResultsByPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	results, err := s.services.Queries.ResultsByPrompt(r.Context(), id)
	s.respondList(w, results, err)
}

// handleExportPrompt streams a prompt's saved results as Markdown or JSON
// (?format=markdown|json, default markdown).
func (s *Server) handleExportPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()
	prompt, err := s.services.Prompts.Get(ctx, id)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	results, err := s.services.Queries.ResultsByPrompt(ctx, id)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	names := make(map[uint]string)
	if list, err := s.services.Models.List(ctx); err == nil {
		for _, m := range list {
			names[m.ID] = m.Name
		}
	}
	entries := export.EntriesFrom(results, names)

	var writeErr error
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		writeErr = export.JSON(w, prompt.Text, entries)
	} else {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		writeErr = export.Markdown(w, prompt.Text, entries)
	}
	if writeErr != nil {
		s.logger.Error("export failed", zap.Uint("prompt_id", id), zap.Error(writeErr))
	}
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	if q.Get("active") == "true" {
		list, err := s.services.Models.ListActive(ctx)
		s.respondList(w, list, err)
		return
	}
	if search := q.Get("q"); search != "" {
		list, err := s.services.Models.Search(ctx, search)
		s.respondList(w, list, err)
		return
	}
	list, err := s.services.Models.List(ctx)
	s.respondList(w, list, err)
}

func (s *Server) handleUpsertModel(w http.ResponseWriter, r *http.Request) {
	var m models.Model
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wasNew := m.ID == 0
	saved, err := s.services.Models.Upsert(r.Context(), &m)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	status := http.StatusOK
	if wasNew {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, saved)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	m, err := s.services.Models.Get(r.Context(), id)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.services.Models.Delete(r.Context(), id); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSetModelActive(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.services.Models.SetActive(r.Context(), id, body.Active); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleResultsByModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	results, err := s.services.Queries.ResultsByModel(r.Context(), id)
	s.respondList(w, results, err)
}

func (s *Server) handleSearchResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	results, err := s.services.Queries.SearchResults(r.Context(), q.Get("q"), limit)
	s.respondList(w, results, err)
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uintParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.services.Queries.DeleteResult(r.Context(), id); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAllSettings(w http.ResponseWriter, r *http.Request) {
	all, err := s.services.Settings.All(r.Context())
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := s.services.Settings.Get(r.Context(), key, "")
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var payload struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.services.Settings.Put(r.Context(), key, payload.Value); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.services.Settings.Delete(r.Context(), key); err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) uintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		s.respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (s *Server) respondList(w http.ResponseWriter, list any, err error) {
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

// respondAppError maps the error taxonomy onto HTTP statuses.
func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrUnsupportedModelType):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrDuplicateName), errors.Is(err, apperr.ErrModelInUse), errors.Is(err, apperr.ErrIntegrity):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
