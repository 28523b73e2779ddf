package cli

import (
	"errors"
	"testing"

	"attendance/internal/model"
	"attendance/internal/service/mutation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	assert.NoError(t, report(mutation.Succeeded(mutation.AddTag, "p-1", "vip"), "Tag added"))

	err := report(mutation.Failed(mutation.RemoveTag, "p-1", "vip", model.ErrUnauthorized), "Tag removed")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	err = report(mutation.Failed(mutation.DeletePhoto, "p-1", "u1", errors.New("status 500")), "Photo deleted")
	assert.EqualError(t, err, "status 500")
}

func TestCellFormatting(t *testing.T) {
	three := 3
	ratio := 29.97

	assert.Equal(t, "-", tags(nil))
	assert.Equal(t, "vip,staff", tags([]string{"vip", "staff"}))
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
	assert.Equal(t, "-", intOrDash(nil))
	assert.Equal(t, "3", intOrDash(&three))
	assert.Equal(t, "-", floatOrDash(nil))
	assert.Equal(t, "29.97", floatOrDash(&ratio))
	assert.Equal(t, "", deref(nil))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"login"},
		{"logout"},
		{"status"},
		{"capture"},
		{"uploads"},
		{"presencas", "list"},
		{"presencas", "delete"},
		{"pessoas", "list"},
		{"pessoas", "show"},
		{"pessoas", "photos"},
		{"pessoas", "photo-delete"},
		{"pessoas", "tag-add"},
		{"pessoas", "tag-remove"},
		{"pessoas", "delete"},
		{"presentes"},
		{"estatisticas"},
		{"agrupamentos"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	assert.Equal(t, "true", serveCmd.Annotations[annotationLogs])
	assert.Equal(t, "true", captureCmd.Annotations[annotationLogs])
	assert.Empty(t, loginCmd.Annotations[annotationLogs])
}
