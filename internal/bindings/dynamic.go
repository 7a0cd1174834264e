//go:build !windows

package bindings

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// Dynamic binds to a PDFium shared library loaded at runtime with dlopen.
// It is the Go analogue of linking against libpdfium.so / libpdfium.dylib:
// every method resolves to a registered native symbol and forwards its
// arguments unmodified.
//
// Dynamic is not safe for concurrent use; wrap it with NewThreadSafe.
type Dynamic struct {
	lib uintptr

	// docData pins the Go buffers handed to FPDF_LoadMemDocument64.
	// PDFium reads from them lazily until the document is closed.
	mu      sync.Mutex
	docData map[Document][]byte

	initLibrary             func()
	destroyLibrary          func()
	getLastError            func() uint64
	loadMemDocument64       func(data unsafe.Pointer, size uint64, password *byte) uintptr
	closeDocument           func(doc uintptr)
	getFileVersion          func(doc uintptr, version *int32) int32
	getPageCount            func(doc uintptr) int32
	getDocPermissions       func(doc uintptr) uint64
	getSecurityHandlerRev   func(doc uintptr) int32
	getMetaText             func(doc uintptr, tag string, buffer unsafe.Pointer, buflen uint64) uint64
	getSignatureCount       func(doc uintptr) int32
	getPageLabel            func(doc uintptr, index int32, buffer unsafe.Pointer, buflen uint64) uint64
	loadPage                func(doc uintptr, index int32) uintptr
	closePage               func(page uintptr)
	getPageWidthF           func(page uintptr) float32
	getPageHeightF          func(page uintptr) float32
	pageGetRotation         func(page uintptr) int32
	bitmapCreate            func(width, height, alpha int32) uintptr
	bitmapFillRect          func(bmp uintptr, left, top, width, height int32, color uint32)
	bitmapGetBuffer         func(bmp uintptr) uintptr
	bitmapGetWidth          func(bmp uintptr) int32
	bitmapGetHeight         func(bmp uintptr) int32
	bitmapGetStride         func(bmp uintptr) int32
	bitmapGetFormat         func(bmp uintptr) int32
	bitmapDestroy           func(bmp uintptr)
	renderPageBitmap        func(bmp, page uintptr, startX, startY, sizeX, sizeY, rotate, flags int32)
	textLoadPage            func(page uintptr) uintptr
	textClosePage           func(tp uintptr)
	textCountChars          func(tp uintptr) int32
	textGetText             func(tp uintptr, start, count int32, result unsafe.Pointer) int32
	textGetUnicode          func(tp uintptr, index int32) uint32
	textFindStart           func(tp uintptr, findWhat unsafe.Pointer, flags uint64, startIndex int32) uintptr
	textFindNext            func(s uintptr) int32
	textGetSchResultIndex   func(s uintptr) int32
	textGetSchCount         func(s uintptr) int32
	textFindClose           func(s uintptr)
	linkLoadWebLinks        func(tp uintptr) uintptr
	linkCountWebLinks       func(pl uintptr) int32
	linkGetURL              func(pl uintptr, index int32, buffer unsafe.Pointer, buflen int32) int32
	linkCloseWebLinks       func(pl uintptr)
	bookmarkGetFirstChild   func(doc, bm uintptr) uintptr
	bookmarkGetNextSibling  func(doc, bm uintptr) uintptr
	bookmarkGetTitle        func(bm uintptr, buffer unsafe.Pointer, buflen uint64) uint64
}

// PlatformLibraryName returns the conventional PDFium shared-library file
// name for the current platform.
func PlatformLibraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libpdfium.dylib"
	default:
		return "libpdfium.so"
	}
}

// NewDynamic loads the PDFium shared library at path and resolves the full
// entry-point surface. An empty path loads the platform's conventional
// library name from the system search path.
func NewDynamic(path string) (Bindings, error) {
	if path == "" {
		path = PlatformLibraryName()
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: dlopen %q: %v", ErrLibraryNotFound, path, err)
	}

	// Probe one well-known symbol first so a wrong library produces a
	// clean error instead of a registration panic below.
	if _, err := purego.Dlsym(lib, "FPDF_InitLibrary"); err != nil {
		return nil, fmt.Errorf("%w: %q does not export FPDF_InitLibrary: %v", ErrLibraryNotFound, path, err)
	}

	d := &Dynamic{lib: lib, docData: make(map[Document][]byte)}
	if err := d.register(); err != nil {
		return nil, err
	}

	Logger().Info("pdfium library loaded", zap.String("path", path))
	return d, nil
}

// register resolves every entry point. RegisterLibFunc panics on a missing
// symbol, which happens when the library predates an entry point we use;
// the panic is converted into ErrLibraryNotFound.
func (d *Dynamic) register() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: incompatible pdfium build: %v", ErrLibraryNotFound, r)
		}
	}()

	for _, reg := range []struct {
		fptr any
		name string
	}{
		{&d.initLibrary, "FPDF_InitLibrary"},
		{&d.destroyLibrary, "FPDF_DestroyLibrary"},
		{&d.getLastError, "FPDF_GetLastError"},
		{&d.loadMemDocument64, "FPDF_LoadMemDocument64"},
		{&d.closeDocument, "FPDF_CloseDocument"},
		{&d.getFileVersion, "FPDF_GetFileVersion"},
		{&d.getPageCount, "FPDF_GetPageCount"},
		{&d.getDocPermissions, "FPDF_GetDocPermissions"},
		{&d.getSecurityHandlerRev, "FPDF_GetSecurityHandlerRevision"},
		{&d.getMetaText, "FPDF_GetMetaText"},
		{&d.getSignatureCount, "FPDF_GetSignatureCount"},
		{&d.getPageLabel, "FPDF_GetPageLabel"},
		{&d.loadPage, "FPDF_LoadPage"},
		{&d.closePage, "FPDF_ClosePage"},
		{&d.getPageWidthF, "FPDF_GetPageWidthF"},
		{&d.getPageHeightF, "FPDF_GetPageHeightF"},
		{&d.pageGetRotation, "FPDFPage_GetRotation"},
		{&d.bitmapCreate, "FPDFBitmap_Create"},
		{&d.bitmapFillRect, "FPDFBitmap_FillRect"},
		{&d.bitmapGetBuffer, "FPDFBitmap_GetBuffer"},
		{&d.bitmapGetWidth, "FPDFBitmap_GetWidth"},
		{&d.bitmapGetHeight, "FPDFBitmap_GetHeight"},
		{&d.bitmapGetStride, "FPDFBitmap_GetStride"},
		{&d.bitmapGetFormat, "FPDFBitmap_GetFormat"},
		{&d.bitmapDestroy, "FPDFBitmap_Destroy"},
		{&d.renderPageBitmap, "FPDF_RenderPageBitmap"},
		{&d.textLoadPage, "FPDFText_LoadPage"},
		{&d.textClosePage, "FPDFText_ClosePage"},
		{&d.textCountChars, "FPDFText_CountChars"},
		{&d.textGetText, "FPDFText_GetText"},
		{&d.textGetUnicode, "FPDFText_GetUnicode"},
		{&d.textFindStart, "FPDFText_FindStart"},
		{&d.textFindNext, "FPDFText_FindNext"},
		{&d.textGetSchResultIndex, "FPDFText_GetSchResultIndex"},
		{&d.textGetSchCount, "FPDFText_GetSchCount"},
		{&d.textFindClose, "FPDFText_FindClose"},
		{&d.linkLoadWebLinks, "FPDFLink_LoadWebLinks"},
		{&d.linkCountWebLinks, "FPDFLink_CountWebLinks"},
		{&d.linkGetURL, "FPDFLink_GetURL"},
		{&d.linkCloseWebLinks, "FPDFLink_CloseWebLinks"},
		{&d.bookmarkGetFirstChild, "FPDFBookmark_GetFirstChild"},
		{&d.bookmarkGetNextSibling, "FPDFBookmark_GetNextSibling"},
		{&d.bookmarkGetTitle, "FPDFBookmark_GetTitle"},
	} {
		purego.RegisterLibFunc(reg.fptr, d.lib, reg.name)
	}
	return nil
}

func (d *Dynamic) InitLibrary() { d.initLibrary() }

func (d *Dynamic) DestroyLibrary() { d.destroyLibrary() }

func (d *Dynamic) LastError() uint32 { return uint32(d.getLastError()) }

func (d *Dynamic) LoadMemDocument(data []byte, password string) Document {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	doc := Document(d.loadMemDocument64(ptr, uint64(len(data)), cstringOrNil(password)))
	runtime.KeepAlive(data)
	if doc != 0 {
		d.mu.Lock()
		d.docData[doc] = data
		d.mu.Unlock()
	}
	return doc
}

func (d *Dynamic) CloseDocument(doc Document) {
	d.closeDocument(uintptr(doc))
	d.mu.Lock()
	delete(d.docData, doc)
	d.mu.Unlock()
}

func (d *Dynamic) FileVersion(doc Document) (int, bool) {
	var v int32
	ok := d.getFileVersion(uintptr(doc), &v)
	return int(v), ok != 0
}

func (d *Dynamic) PageCount(doc Document) int { return int(d.getPageCount(uintptr(doc))) }

func (d *Dynamic) DocPermissions(doc Document) uint32 {
	return uint32(d.getDocPermissions(uintptr(doc)))
}

func (d *Dynamic) SecurityHandlerRevision(doc Document) int {
	return int(d.getSecurityHandlerRev(uintptr(doc)))
}

func (d *Dynamic) MetaText(doc Document, tag string) string {
	return readWideBuffer(func(buf unsafe.Pointer, buflen uint64) uint64 {
		return d.getMetaText(uintptr(doc), tag, buf, buflen)
	})
}

func (d *Dynamic) SignatureCount(doc Document) int {
	return int(d.getSignatureCount(uintptr(doc)))
}

func (d *Dynamic) PageLabel(doc Document, index int) string {
	return readWideBuffer(func(buf unsafe.Pointer, buflen uint64) uint64 {
		return d.getPageLabel(uintptr(doc), int32(index), buf, buflen)
	})
}

func (d *Dynamic) LoadPage(doc Document, index int) Page {
	return Page(d.loadPage(uintptr(doc), int32(index)))
}

func (d *Dynamic) ClosePage(page Page) { d.closePage(uintptr(page)) }

func (d *Dynamic) PageWidth(page Page) float32 { return d.getPageWidthF(uintptr(page)) }

func (d *Dynamic) PageHeight(page Page) float32 { return d.getPageHeightF(uintptr(page)) }

func (d *Dynamic) PageRotation(page Page) int { return int(d.pageGetRotation(uintptr(page))) }

func (d *Dynamic) BitmapCreate(width, height int, alpha bool) Bitmap {
	var a int32
	if alpha {
		a = 1
	}
	return Bitmap(d.bitmapCreate(int32(width), int32(height), a))
}

func (d *Dynamic) BitmapFillRect(bmp Bitmap, left, top, width, height int, color uint32) {
	d.bitmapFillRect(uintptr(bmp), int32(left), int32(top), int32(width), int32(height), color)
}

func (d *Dynamic) BitmapBuffer(bmp Bitmap) []byte {
	ptr := d.bitmapGetBuffer(uintptr(bmp))
	if ptr == 0 {
		return nil
	}
	n := int(d.bitmapGetStride(uintptr(bmp))) * int(d.bitmapGetHeight(uintptr(bmp)))
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}

func (d *Dynamic) BitmapWidth(bmp Bitmap) int { return int(d.bitmapGetWidth(uintptr(bmp))) }

func (d *Dynamic) BitmapHeight(bmp Bitmap) int { return int(d.bitmapGetHeight(uintptr(bmp))) }

func (d *Dynamic) BitmapStride(bmp Bitmap) int { return int(d.bitmapGetStride(uintptr(bmp))) }

func (d *Dynamic) BitmapFormat(bmp Bitmap) int { return int(d.bitmapGetFormat(uintptr(bmp))) }

func (d *Dynamic) BitmapDestroy(bmp Bitmap) { d.bitmapDestroy(uintptr(bmp)) }

func (d *Dynamic) RenderPageBitmap(bmp Bitmap, page Page, startX, startY, sizeX, sizeY, rotate, flags int) {
	d.renderPageBitmap(uintptr(bmp), uintptr(page),
		int32(startX), int32(startY), int32(sizeX), int32(sizeY), int32(rotate), int32(flags))
}

func (d *Dynamic) TextLoadPage(page Page) TextPage {
	return TextPage(d.textLoadPage(uintptr(page)))
}

func (d *Dynamic) TextClosePage(tp TextPage) { d.textClosePage(uintptr(tp)) }

func (d *Dynamic) TextCountChars(tp TextPage) int { return int(d.textCountChars(uintptr(tp))) }

func (d *Dynamic) TextGetText(tp TextPage, start, count int) string {
	if count <= 0 {
		return ""
	}
	// FPDFText_GetText writes up to count characters plus a NUL terminator.
	buf := make([]byte, (count+1)*2)
	written := d.textGetText(uintptr(tp), int32(start), int32(count), unsafe.Pointer(&buf[0]))
	if written <= 0 {
		return ""
	}
	return decodeUTF16LE(buf[:int(written)*2])
}

func (d *Dynamic) TextGetUnicode(tp TextPage, index int) rune {
	return rune(d.textGetUnicode(uintptr(tp), int32(index)))
}

func (d *Dynamic) TextFindStart(tp TextPage, term string, flags uint32, startIndex int) Search {
	wide := encodeUTF16LE(term)
	s := Search(d.textFindStart(uintptr(tp), unsafe.Pointer(&wide[0]), uint64(flags), int32(startIndex)))
	runtime.KeepAlive(wide)
	return s
}

func (d *Dynamic) TextFindNext(s Search) bool { return d.textFindNext(uintptr(s)) != 0 }

func (d *Dynamic) TextFindResultIndex(s Search) int {
	return int(d.textGetSchResultIndex(uintptr(s)))
}

func (d *Dynamic) TextFindResultCount(s Search) int { return int(d.textGetSchCount(uintptr(s))) }

func (d *Dynamic) TextFindClose(s Search) { d.textFindClose(uintptr(s)) }

func (d *Dynamic) LoadWebLinks(tp TextPage) PageLink {
	return PageLink(d.linkLoadWebLinks(uintptr(tp)))
}

func (d *Dynamic) CountWebLinks(pl PageLink) int { return int(d.linkCountWebLinks(uintptr(pl))) }

func (d *Dynamic) WebLinkURL(pl PageLink, index int) string {
	n := d.linkGetURL(uintptr(pl), int32(index), nil, 0)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, int(n)*2)
	d.linkGetURL(uintptr(pl), int32(index), unsafe.Pointer(&buf[0]), n)
	return decodeUTF16LE(buf)
}

func (d *Dynamic) CloseWebLinks(pl PageLink) { d.linkCloseWebLinks(uintptr(pl)) }

func (d *Dynamic) BookmarkFirstChild(doc Document, bm Bookmark) Bookmark {
	return Bookmark(d.bookmarkGetFirstChild(uintptr(doc), uintptr(bm)))
}

func (d *Dynamic) BookmarkNextSibling(doc Document, bm Bookmark) Bookmark {
	return Bookmark(d.bookmarkGetNextSibling(uintptr(doc), uintptr(bm)))
}

func (d *Dynamic) BookmarkTitle(bm Bookmark) string {
	return readWideBuffer(func(buf unsafe.Pointer, buflen uint64) uint64 {
		return d.bookmarkGetTitle(uintptr(bm), buf, buflen)
	})
}

// readWideBuffer performs the two-call pattern shared by PDFium's
// UTF-16 getters: the first call with a nil buffer reports the required
// size in bytes, the second fills the buffer.
func readWideBuffer(call func(buf unsafe.Pointer, buflen uint64) uint64) string {
	n := call(nil, 0)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	call(unsafe.Pointer(&buf[0]), n)
	return decodeUTF16LE(buf)
}

// cstringOrNil returns a NUL-terminated byte pointer for s, or nil for the
// empty string. PDFium treats NULL and "" differently for a handful of
// malformed encrypted files, so "no password" must stay NULL.
func cstringOrNil(s string) *byte {
	if s == "" {
		return nil
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

var _ Bindings = (*Dynamic)(nil)
