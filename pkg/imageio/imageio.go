// Package imageio decodes source images into intensity fields.
//
// Decoding goes through github.com/disintegration/imaging, which handles PNG,
// JPEG, GIF, BMP and TIFF and applies EXIF orientation. WebP is registered
// from golang.org/x/image. Pixels are converted to 8-bit luminance with the
// standard library's color.GrayModel, after optional resampling.
package imageio

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/tiletex/pkg/tilemap"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Size is a target width and height in pixels.
// A zero dimension keeps the aspect ratio, as imaging.Resize does.
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether no resize is requested.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Options controls decoding.
type Options struct {
	Resize Size // resample before grayscale conversion; zero keeps the source size
}

// Load opens and decodes the image at path.
func Load(path string, opts Options) (*tilemap.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "image %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidImage, err, "open image %s", path)
	}
	defer f.Close()
	return Decode(f, opts)
}

// Decode reads an image from r and converts it to an intensity field.
func Decode(r io.Reader, opts Options) (*tilemap.Field, error) {
	if opts.Resize.Width < 0 || opts.Resize.Height < 0 {
		return nil, errs.New(errs.ErrCodeInvalidParameter, "resize %dx%d has a negative dimension", opts.Resize.Width, opts.Resize.Height)
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidImage, err, "decode image")
	}
	if !opts.Resize.IsZero() {
		img = imaging.Resize(img, opts.Resize.Width, opts.Resize.Height, imaging.Lanczos)
	}
	return FromImage(img)
}

// FromImage converts any image to an intensity field using color.GrayModel.
func FromImage(img image.Image) (*tilemap.Field, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "image is %dx%d", w, h)
	}

	pix := make([]uint8, 0, w*h)
	if g, ok := img.(*image.Gray); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := g.PixOffset(b.Min.X, y)
			pix = append(pix, g.Pix[off:off+w]...)
		}
		return tilemap.FieldFromPix(w, h, pix)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
		}
	}
	return tilemap.FieldFromPix(w, h, pix)
}

// Hash returns the SHA-256 of the file at path, hex encoded.
// It identifies the source image in cache keys.
func Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "image %s", path)
		}
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
