package rest

import (
	"net/http"

	"github.com/dmitrijs2005/bvchub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.services.Info.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) staffList(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Info.Staff(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffList(list))
}

func (s *Server) staffMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.services.Info.StaffMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaff(m))
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Info.Events(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvents(list))
}

func (s *Server) event(w http.ResponseWriter, r *http.Request) {
	e, err := s.services.Info.Event(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvent(e))
}

func (s *Server) jobs(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Info.Jobs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobs(list))
}

type applyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) applyForJob(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	app := services.JobApplication{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := s.services.Info.ApplyForJob(r.Context(), chi.URLParam(r, "id"), app); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Application submitted")
}
