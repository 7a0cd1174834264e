package bindings

import "sync"

// PDFium is not thread-safe, and its authors recommend process-level
// parallelism rather than threads for concurrent workloads. The only
// correctness-preserving strategy available at the binding layer is
// coarse-grained mutual exclusion around the whole session of library use:
// the lock is taken on the first InitLibrary call and held until the
// matching DestroyLibrary call, serializing all goroutines that touch the
// library through one wrapper at a time.

// A Marshaller is the process-wide exclusion primitive that gates access to
// PDFium. All ThreadSafe wrappers sharing a Marshaller are serialized
// against each other. Applications normally share the package default; pass
// a dedicated instance to NewThreadSafeWith to make the exclusion scope
// explicit (for example when hosting two independent WebAssembly instances
// that do not share native state).
type Marshaller struct {
	mu sync.Mutex
}

// NewMarshaller returns a fresh, unlocked Marshaller.
func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// defaultMarshaller guards the one copy of PDFium global state in this
// process. It outlives every wrapper instance.
var defaultMarshaller = NewMarshaller()

// DefaultMarshaller returns the process-wide Marshaller shared by all
// wrappers constructed with NewThreadSafe.
func DefaultMarshaller() *Marshaller {
	return defaultMarshaller
}

// ThreadSafe wraps a single-threaded Bindings implementation so that it can
// be invoked from any goroutine. InitLibrary blocks until the wrapper holds
// exclusive access to the library; DestroyLibrary releases it. Every other
// method forwards directly, which is safe only because callers bracket all
// library use between InitLibrary and DestroyLibrary.
type ThreadSafe struct {
	raw   Bindings
	guard *Marshaller

	// mu protects holds. The flag records whether this instance currently
	// owns the marshaller; it is per-instance state, distinct from the
	// marshaller's own lock.
	mu    sync.Mutex
	holds bool
}

// NewThreadSafe wraps raw behind the process-wide default Marshaller.
func NewThreadSafe(raw Bindings) *ThreadSafe {
	return NewThreadSafeWith(raw, defaultMarshaller)
}

// NewThreadSafeWith wraps raw behind an explicit Marshaller. Wrappers that
// must be mutually exclusive have to share the same Marshaller instance.
func NewThreadSafeWith(raw Bindings, m *Marshaller) *ThreadSafe {
	if m == nil {
		m = defaultMarshaller
	}
	return &ThreadSafe{raw: raw, guard: m}
}

// Holds reports whether this wrapper currently owns the marshaller.
func (b *ThreadSafe) Holds() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.holds
}

// InitLibrary acquires exclusive access to PDFium, blocking until every
// other holder has torn down, then forwards to the underlying
// implementation. Calling InitLibrary on a wrapper that already holds the
// lock is a no-op: the call neither re-forwards nor deadlocks.
func (b *ThreadSafe) InitLibrary() {
	b.mu.Lock()
	if b.holds {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	// Block here until the marshaller is free. The instance flag is only
	// set once the lock is held, so a concurrent InitLibrary on the same
	// instance queues behind this one rather than double-forwarding.
	b.guard.mu.Lock()

	b.mu.Lock()
	if b.holds {
		// Impossible: the flag is cleared only while the marshaller is
		// held by this instance. Fail loudly rather than continue with
		// unsynchronized access.
		b.mu.Unlock()
		b.guard.mu.Unlock()
		Logger().Error("thread marshaller state corrupted: lock acquired while already held")
		panic("pdfium/internal/bindings: thread marshaller state corrupted")
	}
	b.holds = true
	b.mu.Unlock()

	b.raw.InitLibrary()
}

// DestroyLibrary forwards the teardown call and releases exclusive access,
// unblocking exactly one goroutine waiting in InitLibrary. Calling
// DestroyLibrary on a wrapper that does not hold the lock is a no-op, so
// cleanup paths may call it unconditionally.
func (b *ThreadSafe) DestroyLibrary() {
	b.mu.Lock()
	if !b.holds {
		b.mu.Unlock()
		return
	}
	b.raw.DestroyLibrary()
	b.holds = false
	b.mu.Unlock()

	// Unlocking an unheld sync.Mutex panics; that is the fail-loud policy
	// for impossible states, never silent unsynchronized access.
	b.guard.mu.Unlock()
}

// The remaining methods forward without additional locking. By construction
// the calling goroutine already holds the marshaller from a prior
// InitLibrary that has not yet been torn down.

func (b *ThreadSafe) LastError() uint32 { return b.raw.LastError() }

func (b *ThreadSafe) LoadMemDocument(data []byte, password string) Document {
	return b.raw.LoadMemDocument(data, password)
}

func (b *ThreadSafe) CloseDocument(doc Document) { b.raw.CloseDocument(doc) }

func (b *ThreadSafe) FileVersion(doc Document) (int, bool) { return b.raw.FileVersion(doc) }

func (b *ThreadSafe) PageCount(doc Document) int { return b.raw.PageCount(doc) }

func (b *ThreadSafe) DocPermissions(doc Document) uint32 { return b.raw.DocPermissions(doc) }

func (b *ThreadSafe) SecurityHandlerRevision(doc Document) int {
	return b.raw.SecurityHandlerRevision(doc)
}

func (b *ThreadSafe) MetaText(doc Document, tag string) string { return b.raw.MetaText(doc, tag) }

func (b *ThreadSafe) SignatureCount(doc Document) int { return b.raw.SignatureCount(doc) }

func (b *ThreadSafe) PageLabel(doc Document, index int) string { return b.raw.PageLabel(doc, index) }

func (b *ThreadSafe) LoadPage(doc Document, index int) Page { return b.raw.LoadPage(doc, index) }

func (b *ThreadSafe) ClosePage(page Page) { b.raw.ClosePage(page) }

func (b *ThreadSafe) PageWidth(page Page) float32 { return b.raw.PageWidth(page) }

func (b *ThreadSafe) PageHeight(page Page) float32 { return b.raw.PageHeight(page) }

func (b *ThreadSafe) PageRotation(page Page) int { return b.raw.PageRotation(page) }

func (b *ThreadSafe) BitmapCreate(width, height int, alpha bool) Bitmap {
	return b.raw.BitmapCreate(width, height, alpha)
}

func (b *ThreadSafe) BitmapFillRect(bmp Bitmap, left, top, width, height int, color uint32) {
	b.raw.BitmapFillRect(bmp, left, top, width, height, color)
}

func (b *ThreadSafe) BitmapBuffer(bmp Bitmap) []byte { return b.raw.BitmapBuffer(bmp) }

func (b *ThreadSafe) BitmapWidth(bmp Bitmap) int { return b.raw.BitmapWidth(bmp) }

func (b *ThreadSafe) BitmapHeight(bmp Bitmap) int { return b.raw.BitmapHeight(bmp) }

func (b *ThreadSafe) BitmapStride(bmp Bitmap) int { return b.raw.BitmapStride(bmp) }

func (b *ThreadSafe) BitmapFormat(bmp Bitmap) int { return b.raw.BitmapFormat(bmp) }

func (b *ThreadSafe) BitmapDestroy(bmp Bitmap) { b.raw.BitmapDestroy(bmp) }

func (b *ThreadSafe) RenderPageBitmap(bmp Bitmap, page Page, startX, startY, sizeX, sizeY, rotate, flags int) {
	b.raw.RenderPageBitmap(bmp, page, startX, startY, sizeX, sizeY, rotate, flags)
}

func (b *ThreadSafe) TextLoadPage(page Page) TextPage { return b.raw.TextLoadPage(page) }

func (b *ThreadSafe) TextClosePage(tp TextPage) { b.raw.TextClosePage(tp) }

func (b *ThreadSafe) TextCountChars(tp TextPage) int { return b.raw.TextCountChars(tp) }

func (b *ThreadSafe) TextGetText(tp TextPage, start, count int) string {
	return b.raw.TextGetText(tp, start, count)
}

func (b *ThreadSafe) TextGetUnicode(tp TextPage, index int) rune {
	return b.raw.TextGetUnicode(tp, index)
}

func (b *ThreadSafe) TextFindStart(tp TextPage, term string, flags uint32, startIndex int) Search {
	return b.raw.TextFindStart(tp, term, flags, startIndex)
}

func (b *ThreadSafe) TextFindNext(s Search) bool { return b.raw.TextFindNext(s) }

func (b *ThreadSafe) TextFindResultIndex(s Search) int { return b.raw.TextFindResultIndex(s) }

func (b *ThreadSafe) TextFindResultCount(s Search) int { return b.raw.TextFindResultCount(s) }

func (b *ThreadSafe) TextFindClose(s Search) { b.raw.TextFindClose(s) }

func (b *ThreadSafe) LoadWebLinks(tp TextPage) PageLink { return b.raw.LoadWebLinks(tp) }

func (b *ThreadSafe) CountWebLinks(pl PageLink) int { return b.raw.CountWebLinks(pl) }

func (b *ThreadSafe) WebLinkURL(pl PageLink, index int) string { return b.raw.WebLinkURL(pl, index) }

func (b *ThreadSafe) CloseWebLinks(pl PageLink) { b.raw.CloseWebLinks(pl) }

func (b *ThreadSafe) BookmarkFirstChild(doc Document, bm Bookmark) Bookmark {
	return b.raw.BookmarkFirstChild(doc, bm)
}

func (b *ThreadSafe) BookmarkNextSibling(doc Document, bm Bookmark) Bookmark {
	return b.raw.BookmarkNextSibling(doc, bm)
}

func (b *ThreadSafe) BookmarkTitle(bm Bookmark) string { return b.raw.BookmarkTitle(bm) }

var _ Bindings = (*ThreadSafe)(nil)
