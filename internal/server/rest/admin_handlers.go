package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// ---- users

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Admin.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccounts(list))
}

func (s *Server) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	avatar, err := formFile(r, "profilePic")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeUploads(avatar)

	a, err := s.services.Admin.UpdateUser(r.Context(), chi.URLParam(r, "id"), profileUpdate(r), formString(r, "password"), avatar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccount(a))
}

func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Admin.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted")
}

func (s *Server) adminUserProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Admin.ProjectsByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjects(list))
}

func (s *Server) adminDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Admin.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Project deleted")
}

// ---- staff

func staffUpdate(r *http.Request) services.StaffUpdate {
	return services.StaffUpdate{
		Name:          formString(r, "name"),
		Department:    formString(r, "department"),
		Email:         formString(r, "email"),
		Qualification: formString(r, "qualification"),
		Subjects:      formList(r, "subjects"),
		Experience:    formString(r, "experience"),
		Bio:           formString(r, "bio"),
	}
}

func (s *Server) adminStaff(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Admin.Staff(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffList(list))
}

func (s *Server) adminCreateStaff(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	photo, err := formFile(r, "photo")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeUploads(photo)

	m := &models.Staff{}
	staffUpdate(r).Apply(m)

	created, err := s.services.Admin.CreateStaff(r.Context(), m, photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaff(created))
}

func (s *Server) adminUpdateStaff(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	photo, err := formFile(r, "photo")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeUploads(photo)

	m, err := s.services.Admin.UpdateStaff(r.Context(), chi.URLParam(r, "id"), staffUpdate(r), photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaff(m))
}

func (s *Server) adminDeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Admin.DeleteStaff(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Staff member deleted")
}

// ---- events

func eventUpdate(r *http.Request) (services.EventUpdate, error) {
	date, err := formDate(r, "date")
	if err != nil {
		return services.EventUpdate{}, err
	}
	return services.EventUpdate{
		Title:       formString(r, "title"),
		Date:        date,
		Time:        formString(r, "time"),
		Location:    formString(r, "location"),
		Description: formString(r, "description"),
		Category:    formString(r, "category"),
	}, nil
}

func (s *Server) adminEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Admin.Events(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvents(list))
}

func (s *Server) adminCreateEvent(w http.ResponseWriter, r *http.Request) {
	s.saveEvent(w, r, "")
}

func (s *Server) adminUpdateEvent(w http.ResponseWriter, r *http.Request) {
	s.saveEvent(w, r, chi.URLParam(r, "id"))
}

// saveEvent creates an event when id is empty and updates it otherwise.
func (s *Server) saveEvent(w http.ResponseWriter, r *http.Request, id string) {
	if err := parseForm(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	upd, err := eventUpdate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	banner, err := formFile(r, "banner")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeUploads(banner)

	var e *models.Event
	status := http.StatusOK
	if id == "" {
		e = &models.Event{}
		upd.Apply(e)
		e, err = s.services.Admin.CreateEvent(r.Context(), e, banner)
		status = http.StatusCreated
	} else {
		e, err = s.services.Admin.UpdateEvent(r.Context(), id, upd, banner)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, toEvent(e))
}

func (s *Server) adminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Admin.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Event deleted")
}

// ---- jobs

type jobRequest struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	Salary      *string `json:"salary"`
	Deadline    *string `json:"deadline"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

func (req jobRequest) update() (services.JobUpdate, error) {
	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		d, err := parseDate(*req.Deadline)
		if err != nil {
			return services.JobUpdate{}, err
		}
		deadline = &d
	}
	return services.JobUpdate{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Salary:      req.Salary,
		Deadline:    deadline,
		Description: req.Description,
		Link:        req.Link,
	}, nil
}

func (s *Server) adminJobs(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Admin.Jobs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobs(list))
}

func (s *Server) adminCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	upd, err := req.update()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	j := &models.Job{}
	upd.Apply(j)

	created, err := s.services.Admin.CreateJob(r.Context(), j)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJob(created))
}

func (s *Server) adminUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	upd, err := req.update()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	j, err := s.services.Admin.UpdateJob(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJob(j))
}

func (s *Server) adminDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Admin.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Job deleted")
}
