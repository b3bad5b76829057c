package crud

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yatube/domain"
	"yatube/errs"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageCreate(t *testing.T) {
	root := t.TempDir()
	is := NewImageService(root)
	data := pngBytes(t)

	img := domain.Image{File: bytes.NewReader(data), Filename: "cat.png"}
	if err := is.Create(&img); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if img.Name() != "posts/cat.png" || img.URL() != "/media/posts/cat.png" {
		t.Errorf("Name() = %q, URL() = %q", img.Name(), img.URL())
	}
	if img.ContentType != "image/png" || img.Extension != ".png" {
		t.Errorf("ContentType = %q, Extension = %q", img.ContentType, img.Extension)
	}
	stored, err := os.ReadFile(filepath.Join(root, "posts", "cat.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stored, data) {
		t.Error("stored file differs from upload")
	}

	if err := is.Delete(&img); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if err := is.Delete(&img); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("second Delete() = %v, want not found", err)
	}
}

func TestImageCreateStripsDirectories(t *testing.T) {
	root := t.TempDir()
	is := NewImageService(root)

	img := domain.Image{File: bytes.NewReader(gifBytes(t)), Filename: "../../small.gif"}
	if err := is.Create(&img); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if img.Name() != "posts/small.gif" {
		t.Errorf("Name() = %q, want posts/small.gif", img.Name())
	}
	if _, err := os.Stat(filepath.Join(root, "posts", "small.gif")); err != nil {
		t.Errorf("image not stored inside the upload folder: %v", err)
	}
}

func TestImageCreateValidation(t *testing.T) {
	is := NewImageService(t.TempDir())
	big := append(pngBytes(t), make([]byte, domain.MaxUploadSize)...)

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"bad extension", "cat.bmp", pngBytes(t)},
		{"not an image", "notes.png", []byte("just some text, definitely not a picture")},
		{"corrupted image", "broken.png", pngBytes(t)[:20]},
		{"too big", "big.png", big},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := domain.Image{File: bytes.NewReader(tt.data), Filename: tt.filename}
			err := is.Create(&img)
			if errs.ErrorCode(err) != errs.EINVALID {
				t.Errorf("Create() = %v, want invalid", err)
			}
		})
	}

	img := domain.Image{File: strings.NewReader("x"), Filename: ""}
	if err := is.Create(&img); errs.ErrorCode(err) != errs.EINVALID {
		t.Errorf("Create() without filename = %v, want invalid", err)
	}
}
