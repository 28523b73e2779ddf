package mutation

import (
	"errors"
	"testing"

	"attendance/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestResult_ThenRunsOnlyOnSuccess(t *testing.T) {
	applied := 0

	ok := Succeeded(AddTag, "p-1", "vip").Then(func() { applied++ })
	assert.True(t, ok.OK)
	assert.NoError(t, ok.Err())

	failed := Failed(RemoveTag, "p-1", "vip", errors.New("status 500")).Then(func() { applied++ })
	assert.False(t, failed.OK)
	assert.EqualError(t, failed.Err(), "status 500")
	assert.Equal(t, "status 500", failed.Reason)

	assert.Equal(t, 1, applied)
}

func TestFailed_NilErrorStillFails(t *testing.T) {
	r := Failed(DeletePhoto, "p-1", "u1", nil)
	assert.False(t, r.OK)
	assert.ErrorIs(t, r.Err(), model.ErrRequestFailed)
}
