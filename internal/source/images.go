package source

import (
	"os"
	"path/filepath"
	"strconv"
)

// Image categories under the images root.
const (
	ImageProduct = "detailed"
	ImageVariant = "feature_variant"
	ImageLogo    = "logos"
)

// Images resolves legacy image links to files on disk. Layout:
// {root}/{category}/{imageID/1000}/{storedFilename}.
type Images struct {
	Root string
}

// RootExists reports whether the configured images root is usable; a missing
// root is fatal to the run.
func (r Images) RootExists() bool {
	info, err := os.Stat(r.Root)
	return err == nil && info.IsDir()
}

// Path computes the on-disk location of one stored image.
func (r Images) Path(category string, imageID int64, filename string) string {
	return filepath.Join(r.Root, category, strconv.FormatInt(imageID/1000, 10), filename)
}

// Resolve filters links down to the files actually present on disk,
// preserving order. Missing files are silently dropped.
func (r Images) Resolve(category string, links []ImageLinkRow) []string {
	var paths []string
	for _, link := range links {
		path := r.Path(category, link.ImageID, link.ImagePath)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
