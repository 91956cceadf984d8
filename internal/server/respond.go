package server

import (
	"encoding/json"
	"net/http"

	grerrors "github.com/matzehuels/grap/pkg/errors"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch grerrors.GetCode(err) {
	case grerrors.ErrCodeParse, grerrors.ErrCodeInvalidInput, grerrors.ErrCodeInvalidOption,
		grerrors.ErrCodeInvalidFormat, grerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case grerrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case grerrors.ErrCodeNotFound, grerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case grerrors.ErrCodeExportUnavailable, grerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as JSON. Internal errors are logged by the caller and
// reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:     grerrors.UserMessage(err),
		Code:      string(grerrors.GetCode(err)),
		RequestID: RequestIDFrom(r.Context()),
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
		resp.Code = string(grerrors.ErrCodeInternal)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
