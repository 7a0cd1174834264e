package pdfium

import (
	"bytes"
	"strings"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// fakeLib is a scripted, in-memory stand-in for the native library. It
// implements the raw binding surface over a small document model so that
// wrapper behavior (lifecycle, error mapping, geometry, iteration) is
// testable without a PDFium build.
type fakeLib struct {
	password    string
	pages       []fakePage
	meta        map[string]string
	bookmarks   []fakeBookmark // handle = index+1
	rootFirst   bindings.Bookmark
	fileVersion int
	hasVersion  bool
	permissions uint32
	secRevision int
	signatures  int

	next         uintptr
	initCount    int
	destroyCount int
	lastErr      uint32

	lastBitmap bindings.Bitmap

	openDocs  map[bindings.Document][]byte
	openPages map[bindings.Page]int
	openText  map[bindings.TextPage]int
	bitmaps   map[bindings.Bitmap]*fakeBitmap
	searches  map[bindings.Search]*fakeSearch
	webLinks  map[bindings.PageLink]int
	renders   []renderCall
}

type fakePage struct {
	width, height float32
	rotation      int
	label         string
	text          string
	links         []string
}

type fakeBookmark struct {
	title       string
	firstChild  bindings.Bookmark
	nextSibling bindings.Bookmark
}

type fakeBitmap struct {
	width, height, format int
	buf                   []byte
}

type fakeSearch struct {
	matches []SearchResult
	pos     int
}

type renderCall struct {
	bmp            bindings.Bitmap
	page           int
	width, height  int
	rotate, flags  int
}

func newFakeLib() *fakeLib {
	return &fakeLib{
		meta:        map[string]string{},
		secRevision: -1,
		permissions: 0xFFFFFFFF,
		openDocs:    map[bindings.Document][]byte{},
		openPages:   map[bindings.Page]int{},
		openText:    map[bindings.TextPage]int{},
		bitmaps:     map[bindings.Bitmap]*fakeBitmap{},
		searches:    map[bindings.Search]*fakeSearch{},
		webLinks:    map[bindings.PageLink]int{},
	}
}

// newTestPdfium wraps a fake behind its own marshaller so parallel tests do
// not contend on the process-wide default.
func newTestPdfium(f *fakeLib) *Pdfium {
	return newPdfium(bindings.NewThreadSafeWith(f, bindings.NewMarshaller()), nil)
}

func (f *fakeLib) handle() uintptr {
	f.next++
	return f.next
}

func (f *fakeLib) InitLibrary()    { f.initCount++ }
func (f *fakeLib) DestroyLibrary() { f.destroyCount++ }

func (f *fakeLib) LastError() uint32 { return f.lastErr }

func (f *fakeLib) LoadMemDocument(data []byte, password string) bindings.Document {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		f.lastErr = 3
		return 0
	}
	if f.password != "" && password != f.password {
		f.lastErr = 4
		return 0
	}
	doc := bindings.Document(f.handle())
	f.openDocs[doc] = data
	return doc
}

func (f *fakeLib) CloseDocument(doc bindings.Document) { delete(f.openDocs, doc) }

func (f *fakeLib) FileVersion(bindings.Document) (int, bool) { return f.fileVersion, f.hasVersion }

func (f *fakeLib) PageCount(bindings.Document) int { return len(f.pages) }

func (f *fakeLib) DocPermissions(bindings.Document) uint32 { return f.permissions }

func (f *fakeLib) SecurityHandlerRevision(bindings.Document) int { return f.secRevision }

func (f *fakeLib) MetaText(_ bindings.Document, tag string) string { return f.meta[tag] }

func (f *fakeLib) SignatureCount(bindings.Document) int { return f.signatures }

func (f *fakeLib) PageLabel(_ bindings.Document, index int) string {
	if index < 0 || index >= len(f.pages) {
		return ""
	}
	return f.pages[index].label
}

func (f *fakeLib) LoadPage(_ bindings.Document, index int) bindings.Page {
	if index < 0 || index >= len(f.pages) {
		f.lastErr = 6
		return 0
	}
	p := bindings.Page(f.handle())
	f.openPages[p] = index
	return p
}

func (f *fakeLib) ClosePage(p bindings.Page) { delete(f.openPages, p) }

func (f *fakeLib) PageWidth(p bindings.Page) float32 { return f.pages[f.openPages[p]].width }

func (f *fakeLib) PageHeight(p bindings.Page) float32 { return f.pages[f.openPages[p]].height }

func (f *fakeLib) PageRotation(p bindings.Page) int { return f.pages[f.openPages[p]].rotation }

func (f *fakeLib) BitmapCreate(width, height int, alpha bool) bindings.Bitmap {
	format := bindings.BitmapFormatBGRx
	if alpha {
		format = bindings.BitmapFormatBGRA
	}
	b := bindings.Bitmap(f.handle())
	f.bitmaps[b] = &fakeBitmap{
		width:  width,
		height: height,
		format: format,
		buf:    make([]byte, width*height*4),
	}
	f.lastBitmap = b
	return b
}

func (f *fakeLib) lastBitmapHandle() bindings.Bitmap { return f.lastBitmap }

func (f *fakeLib) BitmapFillRect(bmp bindings.Bitmap, _, _, _, _ int, color uint32) {
	b := f.bitmaps[bmp]
	for i := 0; i < len(b.buf); i += 4 {
		b.buf[i+0] = byte(color)       // B
		b.buf[i+1] = byte(color >> 8)  // G
		b.buf[i+2] = byte(color >> 16) // R
		b.buf[i+3] = byte(color >> 24) // A
	}
}

func (f *fakeLib) BitmapBuffer(bmp bindings.Bitmap) []byte {
	out := make([]byte, len(f.bitmaps[bmp].buf))
	copy(out, f.bitmaps[bmp].buf)
	return out
}

func (f *fakeLib) BitmapWidth(bmp bindings.Bitmap) int  { return f.bitmaps[bmp].width }
func (f *fakeLib) BitmapHeight(bmp bindings.Bitmap) int { return f.bitmaps[bmp].height }
func (f *fakeLib) BitmapStride(bmp bindings.Bitmap) int { return f.bitmaps[bmp].width * 4 }
func (f *fakeLib) BitmapFormat(bmp bindings.Bitmap) int { return f.bitmaps[bmp].format }
func (f *fakeLib) BitmapDestroy(bmp bindings.Bitmap)    { delete(f.bitmaps, bmp) }

func (f *fakeLib) RenderPageBitmap(bmp bindings.Bitmap, page bindings.Page, _, _, sizeX, sizeY, rotate, flags int) {
	f.renders = append(f.renders, renderCall{
		bmp:    bmp,
		page:   f.openPages[page],
		width:  sizeX,
		height: sizeY,
		rotate: rotate,
		flags:  flags,
	})
}

func (f *fakeLib) TextLoadPage(p bindings.Page) bindings.TextPage {
	tp := bindings.TextPage(f.handle())
	f.openText[tp] = f.openPages[p]
	return tp
}

func (f *fakeLib) TextClosePage(tp bindings.TextPage) { delete(f.openText, tp) }

func (f *fakeLib) textOf(tp bindings.TextPage) []rune {
	return []rune(f.pages[f.openText[tp]].text)
}

func (f *fakeLib) TextCountChars(tp bindings.TextPage) int { return len(f.textOf(tp)) }

func (f *fakeLib) TextGetText(tp bindings.TextPage, start, count int) string {
	runes := f.textOf(tp)
	if start < 0 || start >= len(runes) || count <= 0 {
		return ""
	}
	end := start + count
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func (f *fakeLib) TextGetUnicode(tp bindings.TextPage, index int) rune {
	runes := f.textOf(tp)
	if index < 0 || index >= len(runes) {
		return 0
	}
	return runes[index]
}

func (f *fakeLib) TextFindStart(tp bindings.TextPage, term string, flags uint32, startIndex int) bindings.Search {
	text := string(f.textOf(tp))
	needle := term
	if flags&searchMatchCase == 0 {
		text = strings.ToLower(text)
		needle = strings.ToLower(needle)
	}

	var matches []SearchResult
	for idx := startIndex; ; {
		rel := strings.Index(text[idx:], needle)
		if rel < 0 {
			break
		}
		at := idx + rel
		matches = append(matches, SearchResult{Index: at, Count: len([]rune(term))})
		idx = at + 1
	}

	s := bindings.Search(f.handle())
	f.searches[s] = &fakeSearch{matches: matches, pos: -1}
	return s
}

func (f *fakeLib) TextFindNext(s bindings.Search) bool {
	fs := f.searches[s]
	if fs.pos+1 >= len(fs.matches) {
		return false
	}
	fs.pos++
	return true
}

func (f *fakeLib) TextFindResultIndex(s bindings.Search) int {
	return f.searches[s].matches[f.searches[s].pos].Index
}

func (f *fakeLib) TextFindResultCount(s bindings.Search) int {
	return f.searches[s].matches[f.searches[s].pos].Count
}

func (f *fakeLib) TextFindClose(s bindings.Search) { delete(f.searches, s) }

func (f *fakeLib) LoadWebLinks(tp bindings.TextPage) bindings.PageLink {
	pl := bindings.PageLink(f.handle())
	f.webLinks[pl] = f.openText[tp]
	return pl
}

func (f *fakeLib) CountWebLinks(pl bindings.PageLink) int {
	return len(f.pages[f.webLinks[pl]].links)
}

func (f *fakeLib) WebLinkURL(pl bindings.PageLink, index int) string {
	return f.pages[f.webLinks[pl]].links[index]
}

func (f *fakeLib) CloseWebLinks(pl bindings.PageLink) { delete(f.webLinks, pl) }

func (f *fakeLib) BookmarkFirstChild(_ bindings.Document, bm bindings.Bookmark) bindings.Bookmark {
	if bm == 0 {
		return f.rootFirst
	}
	return f.bookmarks[int(bm)-1].firstChild
}

func (f *fakeLib) BookmarkNextSibling(_ bindings.Document, bm bindings.Bookmark) bindings.Bookmark {
	return f.bookmarks[int(bm)-1].nextSibling
}

func (f *fakeLib) BookmarkTitle(bm bindings.Bookmark) string {
	return f.bookmarks[int(bm)-1].title
}

var _ bindings.Bindings = (*fakeLib)(nil)
