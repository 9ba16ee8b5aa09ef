package api

import (
	"errors"
	"net/http"

	"github.com/matzehuels/flatgraph/pkg/document"
	apperrors "github.com/matzehuels/flatgraph/pkg/errors"
	"github.com/matzehuels/flatgraph/pkg/inline"
	"github.com/matzehuels/flatgraph/pkg/logical"
	"github.com/matzehuels/flatgraph/pkg/store"
)

// errorResponse is the JSON envelope for every error the service returns.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps err to an HTTP status and writes the error envelope.
// Server-side failures log at error level, client mistakes at warn.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Warn("request rejected",
			"method", r.Method, "path", r.URL.Path, "err", err)
	}

	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	}})
}

// statusFor resolves an error chain to an HTTP status and error code.
// Sentinel errors from the domain packages take precedence over wrapped
// code-carrying errors so the most specific classification wins.
func statusFor(err error) (int, apperrors.Code) {
	var cycleErr *inline.CycleError
	switch {
	case errors.As(err, &cycleErr):
		return http.StatusUnprocessableEntity, apperrors.ErrCodeCycle
	case errors.Is(err, inline.ErrMaxDepth):
		return http.StatusUnprocessableEntity, apperrors.ErrCodeMaxDepth
	case errors.Is(err, logical.ErrUnknownGraph):
		return http.StatusNotFound, apperrors.ErrCodeGraphNotFound
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, apperrors.ErrCodeNotFound
	case errors.Is(err, store.ErrInvalidName):
		return http.StatusBadRequest, apperrors.ErrCodeInvalidName
	case errors.Is(err, document.ErrUnknownFormat):
		return http.StatusBadRequest, apperrors.ErrCodeInvalidFormat
	}

	if code := apperrors.GetCode(err); code != "" {
		return statusForCode(code), code
	}
	return http.StatusInternalServerError, apperrors.ErrCodeInternal
}

func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidDocument,
		apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidName,
		apperrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeGraphNotFound,
		apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeCycle, apperrors.ErrCodeMaxDepth:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
