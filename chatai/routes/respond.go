package routes

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"chatai/chatai/apperrors"
	"chatai/chatai/utils/logging"
)

type errorBody struct {
	Kind    apperrors.Kind `json:"kind"`
	Message string         `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

// writeError maps an error to its fixed status and machine-readable
// body. Unexpected errors are logged with full detail and answered
// with a bare internal-error message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.Internal {
		logging.ErrorLogger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, apperrors.HTTPStatus(kind), errorEnvelope{
		Error: errorBody{Kind: kind, Message: apperrors.MessageOf(err)},
	})
}

func writeErrorKind(w http.ResponseWriter, status int, kind apperrors.Kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: message}})
}

// decodeJSON rejects malformed bodies and unknown fields at the
// boundary.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.Validation, "invalid request body", err)
	}
	return nil
}
