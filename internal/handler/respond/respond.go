// Package respond maps service errors onto HTTP responses.
package respond

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/appointment"
	"github.com/telemedpro/telemed/backend/internal/service/chat"
	"github.com/telemedpro/telemed/backend/internal/service/emergency"
	"github.com/telemedpro/telemed/backend/internal/service/profile"
	"github.com/telemedpro/telemed/backend/internal/service/videocall"
	"github.com/telemedpro/telemed/backend/pkg/log"
	"github.com/telemedpro/telemed/backend/pkg/token"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// ErrInvalidID is returned for non-numeric record ids in the path.
var ErrInvalidID = errors.New("invalid id")

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error  string         `json:"error"`
	Notice *device.Notice `json:"notice,omitempty"`
}

var statusTable = []struct {
	target error
	status int
}{
	{record.ErrNotFound, http.StatusNotFound},
	{chat.ErrSessionNotFound, http.StatusNotFound},
	{chat.ErrDoctorNotFound, http.StatusNotFound},
	{videocall.ErrCallNotFound, http.StatusNotFound},
	{emergency.ErrNoContact, http.StatusNotFound},

	{chat.ErrReplyPending, http.StatusConflict},
	{appointment.ErrSlotUnavailable, http.StatusConflict},

	{appointment.ErrNotVideoAppointment, http.StatusUnprocessableEntity},

	{device.ErrPermissionDenied, http.StatusForbidden},
	{token.ErrInvalidToken, http.StatusUnauthorized},

	{ErrInvalidID, http.StatusBadRequest},
	{utils.ErrBadBody, http.StatusBadRequest},
	{record.ErrIncompleteForm, http.StatusBadRequest},
	{chat.ErrEmptyMessage, http.StatusBadRequest},
	{chat.ErrMessageTooLong, http.StatusBadRequest},
	{chat.ErrInvalidAttachment, http.StatusBadRequest},
	{intent.ErrUnknownRuleSet, http.StatusBadRequest},
	{appointment.ErrInvalidType, http.StatusBadRequest},
	{appointment.ErrInvalidReschedule, http.StatusBadRequest},
	{appointment.ErrDoctorMismatch, http.StatusBadRequest},
	{profile.ErrIndexOutOfRange, http.StatusBadRequest},
	{emergency.ErrNotConfirmed, http.StatusBadRequest},
	{emergency.ErrUnknownService, http.StatusBadRequest},
	{videocall.ErrDoctorRequired, http.StatusBadRequest},
	{videocall.ErrUnknownControl, http.StatusBadRequest},
	{device.ErrInvalidNumber, http.StatusBadRequest},
	{device.ErrUnknownCapability, http.StatusBadRequest},
}

// Status returns the HTTP status for err; unknown errors map to 500.
func Status(err error) int {
	for _, entry := range statusTable {
		if errors.Is(err, entry.target) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

// JSON writes payload with status.
func JSON(w http.ResponseWriter, status int, payload any) {
	utils.RespondJSON(w, status, payload)
}

// Error writes err as a JSON error. Permission denials carry a one-time
// notice when notices is non-nil. Internal errors are logged and masked.
func Error(w http.ResponseWriter, err error, notices *device.Notices) {
	status := Status(err)
	body := ErrorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		log.Error("request failed", err)
		body.Error = "internal error"
	}
	if notices != nil {
		body.Notice = notices.For(err)
	}
	utils.RespondJSON(w, status, body)
}

// IDParam parses a positive int64 path parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
