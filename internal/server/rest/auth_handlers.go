package rest

import (
	"net/http"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message     string          `json:"message"`
	Token       string          `json:"token"`
	IsOnboarded bool            `json:"isOnboarded"`
	User        accountResponse `json:"user"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.services.Auth.Signup(r.Context(), req.Name, req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Signup successful. Check your email for the verification code.")
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.services.Auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Message:     "Email verified",
		Token:       sess.Token,
		IsOnboarded: sess.Account.Onboarded,
		User:        toAccount(sess.Account),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Message:     "Login successful",
		Token:       sess.Token,
		IsOnboarded: sess.Account.Onboarded,
		User:        toAccount(sess.Account),
	})
}

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.services.Auth.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string        `json:"token"`
		Admin adminResponse `json:"admin"`
	}{
		Token: sess.Token,
		Admin: adminResponse{ID: sess.Admin.ID, Name: sess.Admin.Name, Email: sess.Admin.Email, Role: string(models.KindAdmin)},
	})
}
