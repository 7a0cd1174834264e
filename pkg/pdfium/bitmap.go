package pdfium

import (
	"errors"
	"image"
	"io"
	"runtime"
	"sync"

	"golang.org/x/image/bmp"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// ErrBitmapFormat reports a pixel format this package cannot convert.
var ErrBitmapFormat = errors.New("pdfium: unsupported bitmap format")

// BitmapFormat identifies the pixel layout of a rendered bitmap.
type BitmapFormat int

const (
	FormatGray BitmapFormat = bindings.BitmapFormatGray
	FormatBGR  BitmapFormat = bindings.BitmapFormatBGR
	FormatBGRx BitmapFormat = bindings.BitmapFormatBGRx
	FormatBGRA BitmapFormat = bindings.BitmapFormatBGRA
)

func (f BitmapFormat) String() string {
	switch f {
	case FormatGray:
		return "Gray"
	case FormatBGR:
		return "BGR"
	case FormatBGRx:
		return "BGRx"
	case FormatBGRA:
		return "BGRA"
	default:
		return "Unknown"
	}
}

// Bitmap wraps an FPDF_BITMAP produced by Page.Render.
type Bitmap struct {
	pdfium *Pdfium
	handle bindings.Bitmap

	mu     sync.Mutex
	closed bool
}

// Close releases the native pixel buffer. Idempotent.
func (b *Bitmap) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	runtime.SetFinalizer(b, nil)
	b.pdfium.bindings.BitmapDestroy(b.handle)
	b.handle = 0
	return nil
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.pdfium.bindings.BitmapWidth(b.handle) }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.pdfium.bindings.BitmapHeight(b.handle) }

// Stride returns the number of bytes per scanline.
func (b *Bitmap) Stride() int { return b.pdfium.bindings.BitmapStride(b.handle) }

// Format returns the pixel layout.
func (b *Bitmap) Format() BitmapFormat { return BitmapFormat(b.pdfium.bindings.BitmapFormat(b.handle)) }

// Buffer returns a copy of the raw pixel data, Stride bytes per row.
func (b *Bitmap) Buffer() []byte { return b.pdfium.bindings.BitmapBuffer(b.handle) }

// Image converts the bitmap into an image.RGBA, swizzling from PDFium's
// BGR-ordered formats.
func (b *Bitmap) Image() (*image.RGBA, error) {
	width, height, stride := b.Width(), b.Height(), b.Stride()
	format := b.Format()
	buf := b.Buffer()
	if buf == nil {
		return nil, ErrBitmapFormat
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := buf[y*stride:]
		out := img.Pix[y*img.Stride:]
		switch format {
		case FormatBGRA:
			for x := 0; x < width; x++ {
				out[x*4+0] = row[x*4+2]
				out[x*4+1] = row[x*4+1]
				out[x*4+2] = row[x*4+0]
				out[x*4+3] = row[x*4+3]
			}
		case FormatBGRx:
			for x := 0; x < width; x++ {
				out[x*4+0] = row[x*4+2]
				out[x*4+1] = row[x*4+1]
				out[x*4+2] = row[x*4+0]
				out[x*4+3] = 0xFF
			}
		case FormatBGR:
			for x := 0; x < width; x++ {
				out[x*4+0] = row[x*3+2]
				out[x*4+1] = row[x*3+1]
				out[x*4+2] = row[x*3+0]
				out[x*4+3] = 0xFF
			}
		case FormatGray:
			for x := 0; x < width; x++ {
				g := row[x]
				out[x*4+0] = g
				out[x*4+1] = g
				out[x*4+2] = g
				out[x*4+3] = 0xFF
			}
		default:
			return nil, ErrBitmapFormat
		}
	}
	return img, nil
}

// GrayImage converts a FormatGray bitmap into an image.Gray without the
// RGBA expansion.
func (b *Bitmap) GrayImage() (*image.Gray, error) {
	if b.Format() != FormatGray {
		return nil, ErrBitmapFormat
	}
	width, height, stride := b.Width(), b.Height(), b.Stride()
	buf := b.Buffer()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+width], buf[y*stride:])
	}
	return img, nil
}

// EncodeBMP writes the bitmap to w in BMP format.
func (b *Bitmap) EncodeBMP(w io.Writer) error {
	img, err := b.Image()
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}
