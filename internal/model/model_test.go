package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagHelpers_DoNotAliasInput(t *testing.T) {
	tags := make([]string, 1, 4)
	tags[0] = "staff"

	added := WithTag(tags, "vip")
	assert.Equal(t, []string{"staff", "vip"}, added)
	assert.Equal(t, []string{"staff"}, tags)
	assert.True(t, HasTag(added, "vip"))

	removed := WithoutTag(added, "staff")
	assert.Equal(t, []string{"vip"}, removed)
	assert.Equal(t, []string{"staff", "vip"}, added)
	assert.False(t, HasTag(removed, "staff"))
}

func TestAttendance_ProcessingTime(t *testing.T) {
	a := Attendance{CaptureTime: 0.5, DetectionTime: 1.25, RecognitionTime: 0.25, QueueTime: 9}
	assert.InDelta(t, 2.0, a.ProcessingTime(), 1e-9)
}

func TestAttendance_DecodeBackendRow(t *testing.T) {
	raw := `{
		"id": "65f0c1",
		"uuid": "abc",
		"tempo_processamento_total": 3.5,
		"tempo_captura_frame": 0.2,
		"tempo_deteccao": 0.8,
		"tempo_reconhecimento": 1.1,
		"foto_captura": null,
		"tag_video": "aula-1",
		"tags": ["vip"],
		"data_captura_frame": "15-06-2025",
		"timestamp_inicial": null,
		"timestamp_final": 1718460000.5,
		"tempo_fila": 0.4
	}`

	var a Attendance
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, "abc", a.PersonUUID)
	assert.Empty(t, a.CapturedPhoto)
	assert.Nil(t, a.StartTimestamp)
	require.NotNil(t, a.EndTimestamp)
	assert.InDelta(t, 0.4, a.QueueTime, 1e-9)
}

func TestRequestError_UnwrapsToRequestFailed(t *testing.T) {
	err := error(&RequestError{Method: "DELETE", Path: "/pessoas/abc/tags", Status: 500, Body: "boom"})
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Equal(t, "DELETE /pessoas/abc/tags: status 500: boom", err.Error())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 500, reqErr.Status)
}
