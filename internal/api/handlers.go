package api

import (
	"encoding/json"
	"net/http"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/service"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	f, fe := parseListFilter(r.URL.Query())
	if len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	items, total, err := s.svc.List(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse(items, total, f))
}

func (s *Server) handleListDeleted(w http.ResponseWriter, r *http.Request) {
	f, fe := parseListFilter(r.URL.Query())
	if len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	items, total, err := s.svc.ListDeleted(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse(items, total, f))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	item, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleGetDeleted(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	item, err := s.svc.GetDeleted(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if fe := s.validateCreate(req); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	item, err := s.svc.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	var req service.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if fe := s.validateUpdate(req); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	item, err := s.svc.Update(r.Context(), id, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	item, err := s.svc.Toggle(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	deleted, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	item, err := s.svc.Restore(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageResponse assembles the list envelope. Items is normalized to an empty
// slice so the JSON field is always an array.
func pageResponse(items []model.Item, total int, f query.Filter) model.ItemPage {
	if items == nil {
		items = []model.Item{}
	}
	return model.ItemPage{
		Items:      items,
		TotalCount: total,
		Page:       f.Page,
		PageSize:   f.PageSize,
	}
}

// decodeJSON reads the request body into v. Unknown fields are ignored, the
// way permissive JSON APIs behave.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
