package pdfium

import (
	"runtime"
	"sync"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// Search flags, mirroring the FPDF_MATCH* constants.
const (
	searchMatchCase      = 0x01
	searchMatchWholeWord = 0x02
)

// TextPage wraps an FPDF_TEXTPAGE handle: the extracted text layer of one
// page.
type TextPage struct {
	pdfium *Pdfium
	handle bindings.TextPage

	mu     sync.Mutex
	closed bool
}

// Close releases the text layer. Idempotent.
func (t *TextPage) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	runtime.SetFinalizer(t, nil)
	t.pdfium.bindings.TextClosePage(t.handle)
	t.handle = 0
	return nil
}

// CharCount returns the number of characters on the page, including
// generated whitespace.
func (t *TextPage) CharCount() int {
	return t.pdfium.bindings.TextCountChars(t.handle)
}

// Text extracts the whole page as a string.
func (t *TextPage) Text() string {
	return t.TextRange(0, t.CharCount())
}

// TextRange extracts count characters starting at the given character
// index.
func (t *TextPage) TextRange(start, count int) string {
	return t.pdfium.bindings.TextGetText(t.handle, start, count)
}

// CharAt returns the Unicode code point of the character at index.
func (t *TextPage) CharAt(index int) rune {
	return t.pdfium.bindings.TextGetUnicode(t.handle, index)
}

// WebLinks returns the URLs PDFium detects in the page text.
func (t *TextPage) WebLinks() []string {
	b := t.pdfium.bindings
	pl := b.LoadWebLinks(t.handle)
	if pl == 0 {
		return nil
	}
	defer b.CloseWebLinks(pl)

	n := b.CountWebLinks(pl)
	if n <= 0 {
		return nil
	}
	urls := make([]string, 0, n)
	for i := 0; i < n; i++ {
		urls = append(urls, b.WebLinkURL(pl, i))
	}
	return urls
}

// SearchOptions configures a text search.
type SearchOptions struct {
	MatchCase      bool
	MatchWholeWord bool

	// StartIndex is the character index to start from; 0 searches the
	// whole page.
	StartIndex int
}

// Search starts a forward search for term on this text page. Iterate with
// Next and release with Close; the search is only valid while the text page
// stays open.
func (t *TextPage) Search(term string, opts SearchOptions) *TextSearch {
	flags := uint32(0)
	if opts.MatchCase {
		flags |= searchMatchCase
	}
	if opts.MatchWholeWord {
		flags |= searchMatchWholeWord
	}
	handle := t.pdfium.bindings.TextFindStart(t.handle, term, flags, opts.StartIndex)
	s := &TextSearch{pdfium: t.pdfium, handle: handle}
	runtime.SetFinalizer(s, func(s *TextSearch) { s.Close() })
	return s
}

// SearchResult is one match within a text page.
type SearchResult struct {
	// Index is the character index of the first matched character.
	Index int

	// Count is the number of characters matched.
	Count int
}

// TextSearch iterates over matches in the scanner style:
//
//	s := tp.Search("total", pdfium.SearchOptions{})
//	defer s.Close()
//	for s.Next() {
//	    r := s.Result()
//	    ...
//	}
type TextSearch struct {
	pdfium *Pdfium
	handle bindings.Search
	closed bool
}

// Next advances to the next match, returning false when no matches remain.
func (s *TextSearch) Next() bool {
	if s.handle == 0 || s.closed {
		return false
	}
	return s.pdfium.bindings.TextFindNext(s.handle)
}

// Result returns the current match. Valid only after Next returned true.
func (s *TextSearch) Result() SearchResult {
	return SearchResult{
		Index: s.pdfium.bindings.TextFindResultIndex(s.handle),
		Count: s.pdfium.bindings.TextFindResultCount(s.handle),
	}
}

// Close releases the search handle. Idempotent.
func (s *TextSearch) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	if s.handle != 0 {
		s.pdfium.bindings.TextFindClose(s.handle)
		s.handle = 0
	}
}
