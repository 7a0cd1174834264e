package pdfium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestText(t *testing.T, fake *fakeLib) *TextPage {
	t.Helper()
	page := loadTestPage(t, fake)
	tp, err := page.Text()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Close() })
	return tp
}

func TestTextExtraction(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, text: "Grand total: 42 units"}}

	tp := loadTestText(t, fake)

	assert.Equal(t, 21, tp.CharCount())
	assert.Equal(t, "Grand total: 42 units", tp.Text())
	assert.Equal(t, "total", tp.TextRange(6, 5))
	assert.Equal(t, 'G', tp.CharAt(0))
}

func TestTextSearch(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, text: "alpha Beta alpha beta ALPHA"}}

	tp := loadTestText(t, fake)

	var indices []int
	s := tp.Search("alpha", SearchOptions{})
	defer s.Close()
	for s.Next() {
		r := s.Result()
		assert.Equal(t, 5, r.Count)
		indices = append(indices, r.Index)
	}
	assert.Equal(t, []int{0, 11, 22}, indices, "case-insensitive search finds every occurrence")
}

func TestTextSearchMatchCase(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, text: "alpha Beta alpha beta ALPHA"}}

	tp := loadTestText(t, fake)

	var indices []int
	s := tp.Search("alpha", SearchOptions{MatchCase: true})
	defer s.Close()
	for s.Next() {
		indices = append(indices, s.Result().Index)
	}
	assert.Equal(t, []int{0, 11}, indices)
}

func TestTextSearchNoMatch(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, text: "nothing here"}}

	tp := loadTestText(t, fake)

	s := tp.Search("absent", SearchOptions{})
	defer s.Close()
	assert.False(t, s.Next())
}

func TestTextSearchClosedIterator(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, text: "x x x"}}

	tp := loadTestText(t, fake)

	s := tp.Search("x", SearchOptions{})
	s.Close()
	s.Close() // idempotent
	assert.False(t, s.Next(), "a closed search must not advance")
}

func TestWebLinks(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{
		width: 612, height: 792,
		text:  "see https://example.com and https://pdfium.googlesource.com",
		links: []string{"https://example.com", "https://pdfium.googlesource.com"},
	}}

	tp := loadTestText(t, fake)

	urls := tp.WebLinks()
	require.Len(t, urls, 2)
	assert.Equal(t, "https://example.com", urls[0])
	assert.Empty(t, fake.webLinks, "web link handle must be closed after enumeration")
}

func TestWebLinksEmpty(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, text: "plain"}}

	tp := loadTestText(t, fake)
	assert.Nil(t, tp.WebLinks())
}
