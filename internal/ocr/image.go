package ocr

import (
	"bytes"
	"fmt"
	"image"
	"io"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes is the maximum image size accepted for recognition (20MB).
const MaxImageBytes = 20 * 1024 * 1024

// Image is a validated input image. Data keeps the original encoding for
// engines that upload bytes; Pixels is the decoded raster.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
	Pixels image.Image
}

// MimeType returns the MIME type of the original encoding.
func (img *Image) MimeType() string {
	switch img.Format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ReadImage reads r fully and decodes it.
func ReadImage(r io.Reader) (*Image, error) {
	const op = "ReadImage"

	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read image data")
	}
	if len(data) > MaxImageBytes {
		return nil, NewOCRError(op, ErrImageTooLarge, fmt.Sprintf("more than %d bytes", MaxImageBytes))
	}
	return DecodeImage(data)
}

// DecodeImage validates and decodes data. JPEG, PNG, GIF, BMP, TIFF and WebP
// are supported.
func DecodeImage(data []byte) (*Image, error) {
	const op = "DecodeImage"

	if len(data) == 0 {
		return nil, NewOCRError(op, ErrInvalidImage, "empty input")
	}
	if len(data) > MaxImageBytes {
		return nil, NewOCRError(op, ErrImageTooLarge, fmt.Sprintf("file size: %d bytes", len(data)))
	}

	pixels, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewOCRError(op, ErrInvalidImage, err.Error())
	}
	b := pixels.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, NewOCRError(op, ErrInvalidImage, "image has no pixels")
	}

	return &Image{
		Data:   data,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: pixels,
	}, nil
}
