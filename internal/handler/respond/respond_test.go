package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/chat"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, Status(fmt.Errorf("lookup: %w", record.ErrNotFound)))
	assert.Equal(t, http.StatusConflict, Status(chat.ErrReplyPending))
	assert.Equal(t, http.StatusBadRequest, Status(chat.ErrEmptyMessage))
	assert.Equal(t, http.StatusForbidden, Status(&device.DeniedError{Capability: device.Camera}))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestErrorMasksInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("db exploded"), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestErrorAttachesNoticeOnce(t *testing.T) {
	notices := device.NewNotices()
	denied := &device.DeniedError{Capability: device.Camera}

	rec := httptest.NewRecorder()
	Error(rec, denied, notices)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Notice)
	assert.Equal(t, device.Camera, body.Notice.Capability)

	rec = httptest.NewRecorder()
	Error(rec, denied, notices)
	body = ErrorBody{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Notice)
}
