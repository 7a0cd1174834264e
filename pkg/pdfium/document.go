package pdfium

import (
	"runtime"
	"sync"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// Document wraps an open FPDF_DOCUMENT handle. It is created by the Load*
// methods on Pdfium and must be closed before the owning Pdfium instance.
type Document struct {
	pdfium *Pdfium
	handle bindings.Document

	mu     sync.Mutex
	closed bool
}

// Close releases the native document and the buffer backing it. Idempotent;
// the second and later calls return ErrDocumentClosed.
func (d *Document) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDocumentClosed
	}
	d.closed = true

	runtime.SetFinalizer(d, nil)
	d.pdfium.bindings.CloseDocument(d.handle)
	d.handle = 0
	return nil
}

func (d *Document) alive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDocumentClosed
	}
	return nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() (int, error) {
	if err := d.alive(); err != nil {
		return 0, err
	}
	return d.pdfium.bindings.PageCount(d.handle), nil
}

// FileVersion returns the PDF version of the file as an integer: 14 for
// PDF 1.4, 17 for PDF 1.7, 20 for PDF 2.0. Documents created in memory by
// PDFium have no file version; ok is false in that case.
func (d *Document) FileVersion() (version int, ok bool, err error) {
	if err := d.alive(); err != nil {
		return 0, false, err
	}
	version, ok = d.pdfium.bindings.FileVersion(d.handle)
	return version, ok, nil
}

// Metadata returns the document information dictionary. Absent tags decode
// as empty strings.
func (d *Document) Metadata() (Metadata, error) {
	if err := d.alive(); err != nil {
		return Metadata{}, err
	}
	get := func(tag string) string { return d.pdfium.bindings.MetaText(d.handle, tag) }
	return Metadata{
		Title:        get("Title"),
		Author:       get("Author"),
		Subject:      get("Subject"),
		Keywords:     get("Keywords"),
		Creator:      get("Creator"),
		Producer:     get("Producer"),
		CreationDate: get("CreationDate"),
		ModDate:      get("ModDate"),
	}, nil
}

// Permissions returns the document's permission flags together with the
// revision of the security handler that enforces them.
func (d *Document) Permissions() (Permissions, error) {
	if err := d.alive(); err != nil {
		return Permissions{}, err
	}
	return Permissions{
		bits:     d.pdfium.bindings.DocPermissions(d.handle),
		revision: d.pdfium.bindings.SecurityHandlerRevision(d.handle),
	}, nil
}

// SignatureCount returns the number of digital signatures in the document.
func (d *Document) SignatureCount() (int, error) {
	if err := d.alive(); err != nil {
		return 0, err
	}
	return d.pdfium.bindings.SignatureCount(d.handle), nil
}

// PageLabel returns the display label of the given page, or an empty string
// when the document defines none.
func (d *Document) PageLabel(index int) (string, error) {
	if err := d.alive(); err != nil {
		return "", err
	}
	return d.pdfium.bindings.PageLabel(d.handle, index), nil
}

// Page opens the page at index, counted from zero.
func (d *Document) Page(index int) (*Page, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	if index < 0 || index >= d.pdfium.bindings.PageCount(d.handle) {
		return nil, ErrPageIndex
	}
	handle := d.pdfium.bindings.LoadPage(d.handle, index)
	if handle == 0 {
		return nil, lastErrorToError(d.pdfium.bindings.LastError())
	}
	p := &Page{document: d, handle: handle, index: index}
	runtime.SetFinalizer(p, func(p *Page) { _ = p.Close() })
	return p, nil
}

// Bookmarks returns the document's outline as a tree. Documents without an
// outline return an empty slice.
func (d *Document) Bookmarks() ([]Bookmark, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	return d.bookmarkChildren(0), nil
}

func (d *Document) bookmarkChildren(parent bindings.Bookmark) []Bookmark {
	var out []Bookmark
	b := d.pdfium.bindings
	for bm := b.BookmarkFirstChild(d.handle, parent); bm != 0; bm = b.BookmarkNextSibling(d.handle, bm) {
		out = append(out, Bookmark{
			Title:    b.BookmarkTitle(bm),
			Children: d.bookmarkChildren(bm),
		})
	}
	return out
}

// Bookmark is one node of the document outline.
type Bookmark struct {
	Title    string
	Children []Bookmark
}

// Metadata holds the standard document information dictionary tags.
// CreationDate and ModDate keep PDF date-string form (D:YYYYMMDDHHmmSS...).
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
}
