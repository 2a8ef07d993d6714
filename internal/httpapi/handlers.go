package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamed0406/statusforge/internal/apperr"
	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/service"
)

func (s *Server) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Service.ListMonitors(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (s *Server) handleCreateMonitor(w http.ResponseWriter, r *http.Request) {
	var in domain.MonitorInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.Service.CreateMonitor(r.Context(), chi.URLParam(r, "projectID"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleGetMonitor(w http.ResponseWriter, r *http.Request) {
	m, err := s.Service.GetMonitor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleUpdateMonitor serves both PUT and PATCH; either way the body is
// sparse.
func (s *Server) handleUpdateMonitor(w http.ResponseWriter, r *http.Request) {
	var p domain.MonitorPatch
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.Service.UpdateMonitor(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMonitor(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.DeleteMonitor(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Monitor deleted"})
}

func (s *Server) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	res, err := s.Service.RunCheck(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("region"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateResult(w http.ResponseWriter, r *http.Request) {
	var in domain.ResultInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Service.CreateResult(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rq := service.ResultQuery{Region: q.Get("region"), Status: q.Get("status")}
	var err error
	if rq.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if rq.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		s.writeError(w, r, err)
		return
	}
	rs, err := s.Service.ListResults(r.Context(), chi.URLParam(r, "id"), rq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidArgumentf("%s must be an integer", name)
	}
	return n, nil
}
