package pdfium

import (
	"runtime"
	"sync"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// Rotation expresses page orientation in quarter turns clockwise, matching
// the values used by FPDFPage_GetRotation and FPDF_RenderPageBitmap.
type Rotation int

const (
	RotationNone Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Degrees returns the rotation in degrees clockwise.
func (r Rotation) Degrees() int { return int(r) * 90 }

// Page wraps an open FPDF_PAGE handle.
type Page struct {
	document *Document
	handle   bindings.Page
	index    int

	mu     sync.Mutex
	closed bool
}

// Index returns the zero-based position of the page in its document.
func (p *Page) Index() int { return p.index }

// Close releases the native page. Idempotent.
func (p *Page) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPageClosed
	}
	p.closed = true

	runtime.SetFinalizer(p, nil)
	p.document.pdfium.bindings.ClosePage(p.handle)
	p.handle = 0
	return nil
}

func (p *Page) alive() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPageClosed
	}
	return nil
}

// Width returns the page width in points (1/72 inch).
func (p *Page) Width() (float32, error) {
	if err := p.alive(); err != nil {
		return 0, err
	}
	return p.document.pdfium.bindings.PageWidth(p.handle), nil
}

// Height returns the page height in points.
func (p *Page) Height() (float32, error) {
	if err := p.alive(); err != nil {
		return 0, err
	}
	return p.document.pdfium.bindings.PageHeight(p.handle), nil
}

// Rotation returns the page's intrinsic rotation from its /Rotate entry.
func (p *Page) Rotation() (Rotation, error) {
	if err := p.alive(); err != nil {
		return RotationNone, err
	}
	return Rotation(p.document.pdfium.bindings.PageRotation(p.handle)), nil
}

// Label returns the page's display label, if the document defines one.
func (p *Page) Label() (string, error) {
	if err := p.alive(); err != nil {
		return "", err
	}
	return p.document.PageLabel(p.index)
}

// Render rasterizes the page into a fresh bitmap according to cfg. The
// caller owns the returned bitmap and must close it.
func (p *Page) Render(cfg RenderConfig) (*Bitmap, error) {
	if err := p.alive(); err != nil {
		return nil, err
	}
	b := p.document.pdfium.bindings

	pxWidth, pxHeight := cfg.pixelSize(b.PageWidth(p.handle), b.PageHeight(p.handle))
	if pxWidth <= 0 || pxHeight <= 0 {
		return nil, ErrBitmapSize
	}

	handle := b.BitmapCreate(pxWidth, pxHeight, cfg.alpha())
	if handle == 0 {
		return nil, lastErrorToError(b.LastError())
	}

	// White background first; PDFium leaves uncovered pixels untouched.
	b.BitmapFillRect(handle, 0, 0, pxWidth, pxHeight, 0xFFFFFFFF)
	b.RenderPageBitmap(handle, p.handle, 0, 0, pxWidth, pxHeight, int(cfg.Rotation), cfg.flags())

	bmp := &Bitmap{pdfium: p.document.pdfium, handle: handle}
	runtime.SetFinalizer(bmp, func(b *Bitmap) { _ = b.Close() })
	return bmp, nil
}

// Text loads the page's text layer for extraction and search.
func (p *Page) Text() (*TextPage, error) {
	if err := p.alive(); err != nil {
		return nil, err
	}
	b := p.document.pdfium.bindings
	handle := b.TextLoadPage(p.handle)
	if handle == 0 {
		return nil, lastErrorToError(b.LastError())
	}
	tp := &TextPage{pdfium: p.document.pdfium, handle: handle}
	runtime.SetFinalizer(tp, func(tp *TextPage) { _ = tp.Close() })
	return tp, nil
}
