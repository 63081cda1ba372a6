package conversation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar/chatdeck/internal/models"
)

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestAddClassifiesByMediaType(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTempFile(t, dir, "photo.png", []byte("\x89PNG fake")),
		writeTempFile(t, dir, "clip.mp4", []byte("fake video")),
		writeTempFile(t, dir, "notes.pdf", []byte("fake pdf")),
		writeTempFile(t, dir, "readme", []byte("no extension")),
	}

	staging := NewStaging()
	require.NoError(t, staging.Add(paths))

	files := staging.Files()
	require.Len(t, files, 4)

	assert.Equal(t, models.KindImage, files[0].Kind)
	assert.Equal(t, models.KindVideo, files[1].Kind)
	assert.Equal(t, models.KindDocument, files[2].Kind)
	assert.Equal(t, models.KindDocument, files[3].Kind)
}

func TestAddPreservesSelectionOrder(t *testing.T) {
	// Images decode concurrently; the final position must still be the
	// selection index, not the decode completion order.
	dir := t.TempDir()

	var names []string
	var paths []string
	for _, name := range []string{"a.png", "b.pdf", "c.jpg", "d.txt", "e.gif"} {
		names = append(names, name)
		paths = append(paths, writeTempFile(t, dir, name, []byte(strings.Repeat("x", 64))))
	}

	for i := 0; i < 20; i++ {
		staging := NewStaging()
		require.NoError(t, staging.Add(paths))

		files := staging.Files()
		require.Len(t, files, len(names))
		for j, f := range files {
			assert.Equal(t, names[j], f.Name, "file at slot %d out of selection order", j)
		}
	}
}

func TestAddDecodesImagePreviews(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTempFile(t, dir, "pic.png", []byte("pixels")),
		writeTempFile(t, dir, "doc.txt", []byte("words")),
	}

	staging := NewStaging()
	require.NoError(t, staging.Add(paths))

	files := staging.Files()
	assert.True(t, strings.HasPrefix(files[0].InlineData, "data:image/png;base64,"),
		"image should carry an inline preview, got %q", files[0].InlineData)
	assert.Empty(t, files[1].InlineData, "non-images carry no inline preview")
}

func TestAddSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeTempFile(t, dir, "ok.txt", []byte("fine"))
	missing := filepath.Join(dir, "missing.txt")

	staging := NewStaging()
	err := staging.Add([]string{missing, good})

	require.Error(t, err)
	files := staging.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "ok.txt", files[0].Name)
}

func TestRemove(t *testing.T) {
	staging := NewStaging()
	staging.files = []models.AttachedFile{{ID: "f1"}, {ID: "f2"}, {ID: "f3"}}

	staging.Remove("f2")
	files := staging.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, "f3", files[1].ID)

	// Unknown ID is a no-op
	staging.Remove("nope")
	assert.Equal(t, 2, staging.Len())
}

func TestDrain(t *testing.T) {
	staging := NewStaging()
	staging.files = []models.AttachedFile{{ID: "f1"}, {ID: "f2"}}

	drained := staging.Drain()
	assert.Len(t, drained, 2)
	assert.Zero(t, staging.Len(), "drain should empty the staging area")

	assert.Empty(t, staging.Drain(), "draining empty staging returns nothing")
}
