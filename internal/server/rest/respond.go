package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bvchub/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// statusFor maps a service error category to an HTTP status and the
// message shown to the client. Unknown errors are reported as 500 without
// detail.
func statusFor(err error) (int, string) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Msg
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrInvalidEmailDomain),
		errors.Is(err, common.ErrSelfFollow),
		errors.Is(err, common.ErrAlreadyVerified),
		errors.Is(err, common.ErrInvalidCode),
		errors.Is(err, common.ErrCodeExpired),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrAlreadyLiked),
		errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrUnverified),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, common.ErrMailDelivery):
		return http.StatusInternalServerError, common.ErrMailDelivery.Error()
	case errors.Is(err, common.ErrUpload):
		return http.StatusInternalServerError, common.ErrUpload.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

// writeError renders err and logs anything that maps to a 5xx.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, msg)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.Invalid("malformed request body")
	}
	return nil
}
