package domain

import (
	"io"
	"path"
)

const (
	// ImagesDir is the folder, relative to the media root, that post images are uploaded to.
	ImagesDir = "posts"
	// MediaURL is the url prefix stored media files are served under.
	MediaURL = "/media/"
	// MaxUploadSize determines the maximum filesize of an image to be uploaded.
	MaxUploadSize int64 = 5 << 20 // 5 Megabyte
)

// Image represents an image uploaded along with a post. Images are only stored as files in the
// filesystem and have no dedicated table in the database: the post keeps the image's Name.
// Images are keyed by their original Filename, so an upload of the same name replaces
// the previous file.
type Image struct {
	File        io.ReadSeeker `json:"-"`
	Filename    string        `json:"filename"`
	Extension   string        `json:"-"`
	ContentType string        `json:"-"`
}

// ImageService is a set of methods to validate and store uploaded images.
type ImageService interface {
	Create(img *Image) error
	Delete(img *Image) error
}

// Name returns the image's name relative to the media root, e.g. "posts/cat.png".
func (i *Image) Name() string {
	return path.Join(ImagesDir, path.Base(i.Filename))
}

// URL returns the public url of the image.
func (i *Image) URL() string {
	return MediaURL + i.Name()
}
