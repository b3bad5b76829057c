package crud

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"yatube/domain"
	"yatube/errs"
)

// ImageService manages Images.
// It implements the domain.ImageService interface.
type ImageService struct {
	imageValidator
}

// imageValidator runs validations on incoming Image data.
// On success, it passes the data on to imageCrud.
// Otherwise, it returns the error of the validation that has failed.
type imageValidator struct {
	imageCrud
}

// imageCrud runs CRUD operations on the filesystem using incoming Image data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type imageCrud struct {
	root string
}

// NewImageService returns an instance of ImageService storing images below mediaRoot.
func NewImageService(mediaRoot string) *ImageService {
	return &ImageService{
		imageValidator{
			imageCrud{
				root: mediaRoot,
			},
		},
	}
}

// Ensure the ImageService struct properly implements the domain.ImageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ImageService = &ImageService{}

// Create runs validations needed for storing uploaded images in the filesystem.
func (iv *imageValidator) Create(img *domain.Image) error {
	err := runImageValFns(img,
		iv.filenameValid,
		iv.extensionValid,
		iv.contentTypeValid,
		iv.decodable,
		iv.belowMaxSize,
	)
	if err != nil {
		return err
	}
	return iv.imageCrud.Create(img)
}

// runImageValFns runs any number of functions of type imageValFn on the passed in Image object.
func runImageValFns(img *domain.Image, fns ...imageValFn) error {
	for _, fn := range fns {
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

// A imageValFn is any function that takes in a pointer to a domain.Image object and returns an error.
type imageValFn func(img *domain.Image) error

// filenameValid strips any directories from the uploaded filename, so that
// images can't be written outside of the upload folder.
func (iv *imageValidator) filenameValid(img *domain.Image) error {
	img.Filename = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(img.Filename, "\\", "/")))
	if img.Filename == "/" || img.Filename == "." {
		return errs.Errorf(errs.EINVALID, "The image has no filename.")
	}
	return nil
}

// belowMaxSize makes sure that the image to be uploaded does not exceed MaxUploadSize.
func (iv *imageValidator) belowMaxSize(img *domain.Image) error {
	size, err := img.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetFilePointer(img); err != nil {
		return err
	}
	if size > domain.MaxUploadSize {
		return errs.Errorf(
			errs.EINVALID,
			"Image "+img.Filename+" exceeds upload size limit of "+strconv.FormatInt(domain.MaxUploadSize>>20, 10)+"MB.",
		)
	}
	return nil
}

// contentTypeValid makes sure that the image to be uploaded is a jpeg, png or gif file.
func (iv *imageValidator) contentTypeValid(img *domain.Image) error {
	buffer := make([]byte, 512)
	n, err := img.File.Read(buffer)
	if err != nil && err != io.EOF {
		return err
	}
	if err = resetFilePointer(img); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer[:n])
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/gif" {
		return errs.Errorf(
			errs.EINVALID,
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
		)
	}
	img.ContentType = contentType
	return nil
}

// decodable makes sure the image header can actually be decoded.
func (iv *imageValidator) decodable(img *domain.Image) error {
	_, _, err := image.DecodeConfig(img.File)
	if rerr := resetFilePointer(img); rerr != nil {
		return rerr
	}
	if err != nil {
		return errs.Errorf(
			errs.EINVALID,
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
		)
	}
	return nil
}

// extensionValid makes sure that the image to be uploaded has one of the
// extensions .jpeg, .jpg, .png or .gif.
func (iv *imageValidator) extensionValid(img *domain.Image) error {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".gif" {
		return errs.Errorf(
			errs.EINVALID,
			"Image "+img.Filename+" has an invalid extension, must be .jpeg, .jpg, .png or .gif.",
		)
	}
	img.Extension = ext
	return nil
}

// resetFilePointer sets the file pointer back to beginning of the file,
// so that subsequent reads can properly read from the beginning again.
func resetFilePointer(img *domain.Image) error {
	_, err := img.File.Seek(0, io.SeekStart)
	return err
}

// Create creates the upload folder if needed and copies the image data into
// a file named after the image's original filename, replacing any previous file of that name.
func (ic *imageCrud) Create(img *domain.Image) error {
	dir := filepath.Join(ic.root, domain.ImagesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	dst, err := os.Create(ic.path(img))
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err = io.Copy(dst, img.File); err != nil {
		return err
	}
	return dst.Close()
}

// Delete removes a specific image from the filesystem.
func (ic *imageCrud) Delete(img *domain.Image) error {
	err := os.Remove(ic.path(img))
	if os.IsNotExist(err) {
		return errs.Errorf(errs.ENOTFOUND, "The image does not exist.")
	}
	return err
}

// path returns the location of an image in the filesystem.
func (ic *imageCrud) path(img *domain.Image) string {
	return filepath.Join(ic.root, filepath.FromSlash(img.Name()))
}
