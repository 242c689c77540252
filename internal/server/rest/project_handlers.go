package rest

import (
	"net/http"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// room for MaxProjectMedia files plus form fields
const maxProjectBody = common.MaxProjectMedia*common.MaxUploadSize + 1<<20

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Projects.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjects(list))
}

func (s *Server) myProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Projects.ListByUser(r.Context(), callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjects(list))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.services.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProject(p))
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProjectBody)
	if err := parseForm(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	media, err := formFiles(r, "media")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeUploads(media...)

	in := services.ProjectInput{
		Title:       r.Form.Get("title"),
		Description: r.Form.Get("description"),
		RepoLink:    r.Form.Get("repoLink"),
		LiveLink:    r.Form.Get("liveLink"),
		TechStack:   formList(r, "techStack"),
	}

	p, err := s.services.Projects.Create(r.Context(), callerID(r), in, media)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProject(p))
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	who, _ := IdentityFrom(r.Context())
	if err := s.services.Projects.Delete(r.Context(), who, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Project deleted")
}

func (s *Server) likeProject(w http.ResponseWriter, r *http.Request) {
	n, err := s.services.Projects.Like(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Likes   int    `json:"likes"`
	}{"Project liked", n})
}
