package bindings

import "errors"

// Opaque handles returned by PDFium. Each mirrors the corresponding FPDF_*
// handle typedef. A zero value means "no object" (failure, or absence for
// optional objects such as bookmarks).
type (
	// Document mirrors FPDF_DOCUMENT.
	Document uintptr

	// Page mirrors FPDF_PAGE.
	Page uintptr

	// TextPage mirrors FPDF_TEXTPAGE.
	TextPage uintptr

	// Bitmap mirrors FPDF_BITMAP.
	Bitmap uintptr

	// Search mirrors FPDF_SCHHANDLE.
	Search uintptr

	// PageLink mirrors FPDF_PAGELINK.
	PageLink uintptr

	// Bookmark mirrors FPDF_BOOKMARK.
	Bookmark uintptr
)

// Bitmap pixel formats, mirroring the FPDFBitmap_* constants.
const (
	BitmapFormatGray = 1
	BitmapFormatBGR  = 2
	BitmapFormatBGRx = 3
	BitmapFormatBGRA = 4
)

var (
	// ErrNotBuilt reports that no dynamic-library loader exists for the
	// current platform. Callers can use this to fall back to the
	// WebAssembly backend.
	ErrNotBuilt = errors.New("pdfium/internal/bindings: dynamic loading not supported on this platform")

	// ErrLibraryNotFound reports that the PDFium shared library could not
	// be located or did not expose the expected entry points.
	ErrLibraryNotFound = errors.New("pdfium/internal/bindings: pdfium library not found")
)
