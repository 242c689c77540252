package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// callerID returns the authenticated subject. Routes using it sit behind
// the gateway.
func callerID(r *http.Request) string {
	ident, _ := IdentityFrom(r.Context())
	return ident.ID()
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	a, err := s.services.Profiles.GetMe(r.Context(), callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccount(a))
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	a, err := s.services.Profiles.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccount(a))
}

type profileSaver func(ctx context.Context, id string, upd models.ProfileUpdate, avatar *services.Upload) (*models.Account, error)

func (s *Server) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	s.saveProfile(w, r, s.services.Profiles.CompleteOnboarding)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	s.saveProfile(w, r, s.services.Profiles.UpdateProfile)
}

func (s *Server) saveProfile(w http.ResponseWriter, r *http.Request, save profileSaver) {
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

	a, err := save(r.Context(), callerID(r), profileUpdate(r), avatar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccount(a))
}

func (s *Server) toggleFollow(w http.ResponseWriter, r *http.Request) {
	following, err := s.services.Profiles.ToggleFollow(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg := "Unfollowed"
	if following {
		msg = "Followed"
	}
	writeJSON(w, http.StatusOK, struct {
		Message   string `json:"message"`
		Following bool   `json:"following"`
	}{msg, following})
}
