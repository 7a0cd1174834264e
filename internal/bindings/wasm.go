package bindings

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
)

// wasmFunctions lists every guest export the backend resolves at
// instantiation time, so that an incompatible PDFium build fails at
// construction instead of on first use.
var wasmFunctions = []string{
	"FPDF_InitLibrary",
	"FPDF_DestroyLibrary",
	"FPDF_GetLastError",
	"FPDF_LoadMemDocument64",
	"FPDF_CloseDocument",
	"FPDF_GetFileVersion",
	"FPDF_GetPageCount",
	"FPDF_GetDocPermissions",
	"FPDF_GetSecurityHandlerRevision",
	"FPDF_GetMetaText",
	"FPDF_GetSignatureCount",
	"FPDF_GetPageLabel",
	"FPDF_LoadPage",
	"FPDF_ClosePage",
	"FPDF_GetPageWidthF",
	"FPDF_GetPageHeightF",
	"FPDFPage_GetRotation",
	"FPDFBitmap_Create",
	"FPDFBitmap_FillRect",
	"FPDFBitmap_GetBuffer",
	"FPDFBitmap_GetWidth",
	"FPDFBitmap_GetHeight",
	"FPDFBitmap_GetStride",
	"FPDFBitmap_GetFormat",
	"FPDFBitmap_Destroy",
	"FPDF_RenderPageBitmap",
	"FPDFText_LoadPage",
	"FPDFText_ClosePage",
	"FPDFText_CountChars",
	"FPDFText_GetText",
	"FPDFText_GetUnicode",
	"FPDFText_FindStart",
	"FPDFText_FindNext",
	"FPDFText_GetSchResultIndex",
	"FPDFText_GetSchCount",
	"FPDFText_FindClose",
	"FPDFLink_LoadWebLinks",
	"FPDFLink_CountWebLinks",
	"FPDFLink_GetURL",
	"FPDFLink_CloseWebLinks",
	"FPDFBookmark_GetFirstChild",
	"FPDFBookmark_GetNextSibling",
	"FPDFBookmark_GetTitle",
	"malloc",
	"free",
}

// WebAssembly runs a PDFium WebAssembly build inside an embedded wazero
// runtime. It works on every platform Go targets, with no shared library on
// the host. Handles returned by PDFium are guest-memory pointers; they never
// leave this backend except as opaque values.
//
// The guest is a single-threaded C library compiled to wasm; the usual
// thread-safety rules apply. Wrap the backend with NewThreadSafe before
// sharing it across goroutines.
type WebAssembly struct {
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	fns     map[string]api.Function

	// docPtrs tracks the guest allocation backing each open document.
	mu      sync.Mutex
	docPtrs map[Document]uint32
}

// NewWebAssembly compiles and instantiates the given PDFium wasm binary.
// ctx bounds instantiation and every subsequent guest call.
func NewWebAssembly(ctx context.Context, wasmBinary []byte) (*WebAssembly, error) {
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	mod, err := r.InstantiateWithConfig(ctx, wasmBinary,
		wazero.NewModuleConfig().WithName("pdfium").WithStartFunctions())
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("pdfium/internal/bindings: instantiate wasm module: %w", err)
	}

	// Reactor-style builds export _initialize instead of _start.
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = r.Close(ctx)
			return nil, fmt.Errorf("pdfium/internal/bindings: _initialize: %w", err)
		}
	}

	fns := make(map[string]api.Function, len(wasmFunctions))
	for _, name := range wasmFunctions {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			_ = r.Close(ctx)
			return nil, fmt.Errorf("pdfium/internal/bindings: wasm module does not export %q", name)
		}
		fns[name] = fn
	}

	Logger().Info("pdfium wasm module instantiated",
		zap.Int("binary_bytes", len(wasmBinary)),
		zap.Uint32("memory_pages", mod.Memory().Size()/65536))

	return &WebAssembly{
		ctx:     ctx,
		runtime: r,
		module:  mod,
		fns:     fns,
		docPtrs: make(map[Document]uint32),
	}, nil
}

// Close shuts down the embedded runtime. The backend must not be used
// afterwards; call DestroyLibrary first.
func (w *WebAssembly) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}

// call invokes a guest export and returns its first result. A guest trap
// means the wasm instance is corrupted beyond recovery, so the failure is
// loud rather than silently returning a zero value.
func (w *WebAssembly) call(name string, args ...uint64) uint64 {
	res, err := w.fns[name].Call(w.ctx, args...)
	if err != nil {
		Logger().Error("pdfium wasm call trapped", zap.String("function", name), zap.Error(err))
		panic(fmt.Sprintf("pdfium/internal/bindings: %s trapped: %v", name, err))
	}
	if len(res) == 0 {
		return 0
	}
	return res[0]
}

// alloc reserves n bytes in guest memory via the module's own allocator.
func (w *WebAssembly) alloc(n int) uint32 {
	return uint32(w.call("malloc", uint64(n)))
}

func (w *WebAssembly) freePtr(ptr uint32) {
	if ptr != 0 {
		w.call("free", uint64(ptr))
	}
}

// writeBytes copies b into a fresh guest allocation.
func (w *WebAssembly) writeBytes(b []byte) uint32 {
	ptr := w.alloc(len(b))
	if !w.module.Memory().Write(ptr, b) {
		panic("pdfium/internal/bindings: guest memory write out of range")
	}
	return ptr
}

func (w *WebAssembly) readBytes(ptr, n uint32) []byte {
	b, ok := w.module.Memory().Read(ptr, n)
	if !ok {
		panic("pdfium/internal/bindings: guest memory read out of range")
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (w *WebAssembly) InitLibrary() { w.call("FPDF_InitLibrary") }

func (w *WebAssembly) DestroyLibrary() { w.call("FPDF_DestroyLibrary") }

func (w *WebAssembly) LastError() uint32 { return uint32(w.call("FPDF_GetLastError")) }

func (w *WebAssembly) LoadMemDocument(data []byte, password string) Document {
	dataPtr := w.writeBytes(data)
	var pwPtr uint32
	if password != "" {
		pwPtr = w.writeBytes(append([]byte(password), 0))
	}

	doc := Document(w.call("FPDF_LoadMemDocument64", uint64(dataPtr), uint64(len(data)), uint64(pwPtr)))

	// PDFium copies the password during load but reads document bytes
	// lazily, so the data allocation stays alive until CloseDocument.
	w.freePtr(pwPtr)
	if doc == 0 {
		w.freePtr(dataPtr)
		return 0
	}
	w.mu.Lock()
	w.docPtrs[doc] = dataPtr
	w.mu.Unlock()
	return doc
}

func (w *WebAssembly) CloseDocument(doc Document) {
	w.call("FPDF_CloseDocument", uint64(doc))
	w.mu.Lock()
	ptr := w.docPtrs[doc]
	delete(w.docPtrs, doc)
	w.mu.Unlock()
	w.freePtr(ptr)
}

func (w *WebAssembly) FileVersion(doc Document) (int, bool) {
	out := w.alloc(4)
	defer w.freePtr(out)
	ok := w.call("FPDF_GetFileVersion", uint64(doc), uint64(out))
	if ok == 0 {
		return 0, false
	}
	v, _ := w.module.Memory().ReadUint32Le(out)
	return int(int32(v)), true
}

func (w *WebAssembly) PageCount(doc Document) int {
	return int(int32(w.call("FPDF_GetPageCount", uint64(doc))))
}

func (w *WebAssembly) DocPermissions(doc Document) uint32 {
	return uint32(w.call("FPDF_GetDocPermissions", uint64(doc)))
}

func (w *WebAssembly) SecurityHandlerRevision(doc Document) int {
	return int(int32(w.call("FPDF_GetSecurityHandlerRevision", uint64(doc))))
}

func (w *WebAssembly) MetaText(doc Document, tag string) string {
	tagPtr := w.writeBytes(append([]byte(tag), 0))
	defer w.freePtr(tagPtr)
	return w.readWide(func(buf uint32, buflen uint64) uint64 {
		return w.call("FPDF_GetMetaText", uint64(doc), uint64(tagPtr), uint64(buf), buflen)
	})
}

func (w *WebAssembly) SignatureCount(doc Document) int {
	return int(int32(w.call("FPDF_GetSignatureCount", uint64(doc))))
}

func (w *WebAssembly) PageLabel(doc Document, index int) string {
	return w.readWide(func(buf uint32, buflen uint64) uint64 {
		return w.call("FPDF_GetPageLabel", uint64(doc), uint64(uint32(index)), uint64(buf), buflen)
	})
}

func (w *WebAssembly) LoadPage(doc Document, index int) Page {
	return Page(w.call("FPDF_LoadPage", uint64(doc), uint64(uint32(index))))
}

func (w *WebAssembly) ClosePage(page Page) { w.call("FPDF_ClosePage", uint64(page)) }

func (w *WebAssembly) PageWidth(page Page) float32 {
	return api.DecodeF32(w.call("FPDF_GetPageWidthF", uint64(page)))
}

func (w *WebAssembly) PageHeight(page Page) float32 {
	return api.DecodeF32(w.call("FPDF_GetPageHeightF", uint64(page)))
}

func (w *WebAssembly) PageRotation(page Page) int {
	return int(int32(w.call("FPDFPage_GetRotation", uint64(page))))
}

func (w *WebAssembly) BitmapCreate(width, height int, alpha bool) Bitmap {
	var a uint64
	if alpha {
		a = 1
	}
	return Bitmap(w.call("FPDFBitmap_Create", uint64(uint32(width)), uint64(uint32(height)), a))
}

func (w *WebAssembly) BitmapFillRect(bmp Bitmap, left, top, width, height int, color uint32) {
	w.call("FPDFBitmap_FillRect", uint64(bmp),
		uint64(uint32(left)), uint64(uint32(top)), uint64(uint32(width)), uint64(uint32(height)),
		uint64(color))
}

func (w *WebAssembly) BitmapBuffer(bmp Bitmap) []byte {
	ptr := uint32(w.call("FPDFBitmap_GetBuffer", uint64(bmp)))
	if ptr == 0 {
		return nil
	}
	n := w.BitmapStride(bmp) * w.BitmapHeight(bmp)
	if n <= 0 {
		return nil
	}
	return w.readBytes(ptr, uint32(n))
}

func (w *WebAssembly) BitmapWidth(bmp Bitmap) int {
	return int(int32(w.call("FPDFBitmap_GetWidth", uint64(bmp))))
}

func (w *WebAssembly) BitmapHeight(bmp Bitmap) int {
	return int(int32(w.call("FPDFBitmap_GetHeight", uint64(bmp))))
}

func (w *WebAssembly) BitmapStride(bmp Bitmap) int {
	return int(int32(w.call("FPDFBitmap_GetStride", uint64(bmp))))
}

func (w *WebAssembly) BitmapFormat(bmp Bitmap) int {
	return int(int32(w.call("FPDFBitmap_GetFormat", uint64(bmp))))
}

func (w *WebAssembly) BitmapDestroy(bmp Bitmap) { w.call("FPDFBitmap_Destroy", uint64(bmp)) }

func (w *WebAssembly) RenderPageBitmap(bmp Bitmap, page Page, startX, startY, sizeX, sizeY, rotate, flags int) {
	w.call("FPDF_RenderPageBitmap", uint64(bmp), uint64(page),
		uint64(uint32(startX)), uint64(uint32(startY)), uint64(uint32(sizeX)), uint64(uint32(sizeY)),
		uint64(uint32(rotate)), uint64(uint32(flags)))
}

func (w *WebAssembly) TextLoadPage(page Page) TextPage {
	return TextPage(w.call("FPDFText_LoadPage", uint64(page)))
}

func (w *WebAssembly) TextClosePage(tp TextPage) { w.call("FPDFText_ClosePage", uint64(tp)) }

func (w *WebAssembly) TextCountChars(tp TextPage) int {
	return int(int32(w.call("FPDFText_CountChars", uint64(tp))))
}

func (w *WebAssembly) TextGetText(tp TextPage, start, count int) string {
	if count <= 0 {
		return ""
	}
	buf := w.alloc((count + 1) * 2)
	defer w.freePtr(buf)
	written := int32(w.call("FPDFText_GetText",
		uint64(tp), uint64(uint32(start)), uint64(uint32(count)), uint64(buf)))
	if written <= 0 {
		return ""
	}
	return decodeUTF16LE(w.readBytes(buf, uint32(written)*2))
}

func (w *WebAssembly) TextGetUnicode(tp TextPage, index int) rune {
	return rune(uint32(w.call("FPDFText_GetUnicode", uint64(tp), uint64(uint32(index)))))
}

func (w *WebAssembly) TextFindStart(tp TextPage, term string, flags uint32, startIndex int) Search {
	wide := w.writeBytes(utf16Bytes(term))
	defer w.freePtr(wide)
	return Search(w.call("FPDFText_FindStart",
		uint64(tp), uint64(wide), uint64(flags), uint64(uint32(startIndex))))
}

func (w *WebAssembly) TextFindNext(s Search) bool {
	return w.call("FPDFText_FindNext", uint64(s)) != 0
}

func (w *WebAssembly) TextFindResultIndex(s Search) int {
	return int(int32(w.call("FPDFText_GetSchResultIndex", uint64(s))))
}

func (w *WebAssembly) TextFindResultCount(s Search) int {
	return int(int32(w.call("FPDFText_GetSchCount", uint64(s))))
}

func (w *WebAssembly) TextFindClose(s Search) { w.call("FPDFText_FindClose", uint64(s)) }

func (w *WebAssembly) LoadWebLinks(tp TextPage) PageLink {
	return PageLink(w.call("FPDFLink_LoadWebLinks", uint64(tp)))
}

func (w *WebAssembly) CountWebLinks(pl PageLink) int {
	return int(int32(w.call("FPDFLink_CountWebLinks", uint64(pl))))
}

func (w *WebAssembly) WebLinkURL(pl PageLink, index int) string {
	n := int32(w.call("FPDFLink_GetURL", uint64(pl), uint64(uint32(index)), 0, 0))
	if n <= 0 {
		return ""
	}
	buf := w.alloc(int(n) * 2)
	defer w.freePtr(buf)
	w.call("FPDFLink_GetURL", uint64(pl), uint64(uint32(index)), uint64(buf), uint64(uint32(n)))
	return decodeUTF16LE(w.readBytes(buf, uint32(n)*2))
}

func (w *WebAssembly) CloseWebLinks(pl PageLink) { w.call("FPDFLink_CloseWebLinks", uint64(pl)) }

func (w *WebAssembly) BookmarkFirstChild(doc Document, bm Bookmark) Bookmark {
	return Bookmark(w.call("FPDFBookmark_GetFirstChild", uint64(doc), uint64(bm)))
}

func (w *WebAssembly) BookmarkNextSibling(doc Document, bm Bookmark) Bookmark {
	return Bookmark(w.call("FPDFBookmark_GetNextSibling", uint64(doc), uint64(bm)))
}

func (w *WebAssembly) BookmarkTitle(bm Bookmark) string {
	return w.readWide(func(buf uint32, buflen uint64) uint64 {
		return w.call("FPDFBookmark_GetTitle", uint64(bm), uint64(buf), buflen)
	})
}

// readWide performs the two-call UTF-16 buffer pattern against guest memory.
func (w *WebAssembly) readWide(call func(buf uint32, buflen uint64) uint64) string {
	n := call(0, 0)
	if n == 0 {
		return ""
	}
	buf := w.alloc(int(n))
	defer w.freePtr(buf)
	call(buf, n)
	return decodeUTF16LE(w.readBytes(buf, uint32(n)))
}

var _ Bindings = (*WebAssembly)(nil)
