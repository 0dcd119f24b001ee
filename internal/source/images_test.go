package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagesPath(t *testing.T) {
	images := Images{Root: "/srv/images"}

	// Files are bucketed by imageID/1000.
	assert.Equal(t, filepath.Join("/srv/images", "detailed", "0", "a.jpg"), images.Path(ImageProduct, 999, "a.jpg"))
	assert.Equal(t, filepath.Join("/srv/images", "detailed", "1", "b.jpg"), images.Path(ImageProduct, 1000, "b.jpg"))
	assert.Equal(t, filepath.Join("/srv/images", "logos", "12", "c.png"), images.Path(ImageLogo, 12345, "c.png"))
}

func TestImagesRootExists(t *testing.T) {
	assert.True(t, Images{Root: t.TempDir()}.RootExists())
	assert.False(t, Images{Root: filepath.Join(t.TempDir(), "missing")}.RootExists())

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.False(t, Images{Root: file}.RootExists())
}

func TestImagesResolveDropsMissingFiles(t *testing.T) {
	root := t.TempDir()
	images := Images{Root: root}

	dir := filepath.Join(root, ImageProduct, "0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "first.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "third.jpg"), []byte("x"), 0o644))

	links := []ImageLinkRow{
		{ImageID: 1, ImagePath: "first.jpg"},
		{ImageID: 2, ImagePath: "gone.jpg"},
		{ImageID: 3, ImagePath: "third.jpg"},
	}

	paths := images.Resolve(ImageProduct, links)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "first.jpg"), paths[0])
	assert.Equal(t, filepath.Join(dir, "third.jpg"), paths[1])
}
