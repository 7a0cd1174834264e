package pdfium

import (
	"errors"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

var (
	// ErrClosed reports use of a Pdfium instance after Close.
	ErrClosed = errors.New("pdfium: instance has been closed")

	// ErrDocumentClosed reports use of a document after Close.
	ErrDocumentClosed = errors.New("pdfium: document has been closed")

	// ErrPageClosed reports use of a page after Close.
	ErrPageClosed = errors.New("pdfium: page has been closed")

	// ErrPageIndex reports a page index outside [0, PageCount).
	ErrPageIndex = errors.New("pdfium: page index out of range")

	// ErrNotBuilt is returned by BindToSystemLibrary and BindToLibrary on
	// platforms without dynamic-library support. The WebAssembly backend
	// remains available there.
	ErrNotBuilt = bindings.ErrNotBuilt

	// ErrLibraryNotFound reports that no usable PDFium shared library was
	// found at the requested location.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound
)

// Sentinels for the FPDF_GetLastError codes PDFium reports after a failed
// load.
var (
	ErrUnknown  = errors.New("pdfium: unknown error")
	ErrFile     = errors.New("pdfium: file not found or could not be opened")
	ErrFormat   = errors.New("pdfium: file not in PDF format or corrupted")
	ErrPassword = errors.New("pdfium: password required or incorrect password")
	ErrSecurity = errors.New("pdfium: unsupported security scheme")
	ErrPage     = errors.New("pdfium: page not found or content error")
)

// lastErrorToError maps an FPDF_GetLastError code onto its sentinel.
func lastErrorToError(code uint32) error {
	switch code {
	case 0:
		// Success code on a failure path still means something went
		// wrong; report it as unknown rather than nil.
		return ErrUnknown
	case 1:
		return ErrUnknown
	case 2:
		return ErrFile
	case 3:
		return ErrFormat
	case 4:
		return ErrPassword
	case 5:
		return ErrSecurity
	case 6:
		return ErrPage
	default:
		return ErrUnknown
	}
}
