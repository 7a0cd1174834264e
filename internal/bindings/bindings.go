package bindings

// Bindings is the raw PDFium binding surface. Every method corresponds
// one-for-one with a native entry point and forwards its return value
// unchanged: a zero handle signals failure, and callers consult LastError
// for the reason. Methods that return text perform only the mechanical
// two-call UTF-16LE buffer dance the native API requires; they do not
// interpret the result.
//
// Implementations are NOT safe for concurrent use. Wrap them with
// NewThreadSafe before sharing across goroutines.
type Bindings interface {
	// InitLibrary forwards to FPDF_InitLibrary.
	InitLibrary()

	// DestroyLibrary forwards to FPDF_DestroyLibrary.
	DestroyLibrary()

	// LastError forwards to FPDF_GetLastError.
	LastError() uint32

	// LoadMemDocument forwards to FPDF_LoadMemDocument64. The backend
	// retains data until the matching CloseDocument; PDFium reads from
	// the buffer lazily for the lifetime of the document.
	LoadMemDocument(data []byte, password string) Document

	// CloseDocument forwards to FPDF_CloseDocument and releases the
	// buffer retained by LoadMemDocument.
	CloseDocument(doc Document)

	// FileVersion forwards to FPDF_GetFileVersion. The version is
	// expressed as an integer (14 for PDF 1.4, 20 for PDF 2.0).
	FileVersion(doc Document) (int, bool)

	// PageCount forwards to FPDF_GetPageCount.
	PageCount(doc Document) int

	// DocPermissions forwards to FPDF_GetDocPermissions.
	DocPermissions(doc Document) uint32

	// SecurityHandlerRevision forwards to FPDF_GetSecurityHandlerRevision.
	// Returns -1 for unencrypted documents.
	SecurityHandlerRevision(doc Document) int

	// MetaText forwards to FPDF_GetMetaText for the given info tag
	// (Title, Author, Subject, Keywords, Creator, Producer,
	// CreationDate, ModDate).
	MetaText(doc Document, tag string) string

	// SignatureCount forwards to FPDF_GetSignatureCount.
	SignatureCount(doc Document) int

	// PageLabel forwards to FPDF_GetPageLabel.
	PageLabel(doc Document, index int) string

	// LoadPage forwards to FPDF_LoadPage.
	LoadPage(doc Document, index int) Page

	// ClosePage forwards to FPDF_ClosePage.
	ClosePage(page Page)

	// PageWidth forwards to FPDF_GetPageWidthF (points).
	PageWidth(page Page) float32

	// PageHeight forwards to FPDF_GetPageHeightF (points).
	PageHeight(page Page) float32

	// PageRotation forwards to FPDFPage_GetRotation (0..3, quarter turns
	// clockwise).
	PageRotation(page Page) int

	// BitmapCreate forwards to FPDFBitmap_Create.
	BitmapCreate(width, height int, alpha bool) Bitmap

	// BitmapFillRect forwards to FPDFBitmap_FillRect. color is ARGB.
	BitmapFillRect(bmp Bitmap, left, top, width, height int, color uint32)

	// BitmapBuffer copies the pixel buffer out of FPDFBitmap_GetBuffer.
	BitmapBuffer(bmp Bitmap) []byte

	// BitmapWidth forwards to FPDFBitmap_GetWidth.
	BitmapWidth(bmp Bitmap) int

	// BitmapHeight forwards to FPDFBitmap_GetHeight.
	BitmapHeight(bmp Bitmap) int

	// BitmapStride forwards to FPDFBitmap_GetStride.
	BitmapStride(bmp Bitmap) int

	// BitmapFormat forwards to FPDFBitmap_GetFormat.
	BitmapFormat(bmp Bitmap) int

	// BitmapDestroy forwards to FPDFBitmap_Destroy.
	BitmapDestroy(bmp Bitmap)

	// RenderPageBitmap forwards to FPDF_RenderPageBitmap.
	RenderPageBitmap(bmp Bitmap, page Page, startX, startY, sizeX, sizeY, rotate, flags int)

	// TextLoadPage forwards to FPDFText_LoadPage.
	TextLoadPage(page Page) TextPage

	// TextClosePage forwards to FPDFText_ClosePage.
	TextClosePage(tp TextPage)

	// TextCountChars forwards to FPDFText_CountChars.
	TextCountChars(tp TextPage) int

	// TextGetText forwards to FPDFText_GetText for count characters
	// starting at start, decoding the UTF-16LE result.
	TextGetText(tp TextPage, start, count int) string

	// TextGetUnicode forwards to FPDFText_GetUnicode.
	TextGetUnicode(tp TextPage, index int) rune

	// TextFindStart forwards to FPDFText_FindStart, encoding term as a
	// NUL-terminated UTF-16LE widestring.
	TextFindStart(tp TextPage, term string, flags uint32, startIndex int) Search

	// TextFindNext forwards to FPDFText_FindNext.
	TextFindNext(s Search) bool

	// TextFindResultIndex forwards to FPDFText_GetSchResultIndex.
	TextFindResultIndex(s Search) int

	// TextFindResultCount forwards to FPDFText_GetSchCount.
	TextFindResultCount(s Search) int

	// TextFindClose forwards to FPDFText_FindClose.
	TextFindClose(s Search)

	// LoadWebLinks forwards to FPDFLink_LoadWebLinks.
	LoadWebLinks(tp TextPage) PageLink

	// CountWebLinks forwards to FPDFLink_CountWebLinks.
	CountWebLinks(pl PageLink) int

	// WebLinkURL forwards to FPDFLink_GetURL.
	WebLinkURL(pl PageLink, index int) string

	// CloseWebLinks forwards to FPDFLink_CloseWebLinks.
	CloseWebLinks(pl PageLink)

	// BookmarkFirstChild forwards to FPDFBookmark_GetFirstChild. A zero
	// bookmark requests the root of the tree.
	BookmarkFirstChild(doc Document, bm Bookmark) Bookmark

	// BookmarkNextSibling forwards to FPDFBookmark_GetNextSibling.
	BookmarkNextSibling(doc Document, bm Bookmark) Bookmark

	// BookmarkTitle forwards to FPDFBookmark_GetTitle.
	BookmarkTitle(bm Bookmark) string
}
