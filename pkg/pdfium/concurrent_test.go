package pdfium

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// TestConcurrentInstancesSerialized drives several goroutines, each owning
// its own Pdfium instance over one shared single-threaded backend. The
// shared marshaller must interleave whole sessions, never individual calls:
// the fake backend has no internal locking, so any overlap would corrupt
// its handle tables and fail the assertions below.
func TestConcurrentInstancesSerialized(t *testing.T) {
	const goroutines = 6

	fake := newFakeLib()
	fake.pages = []fakePage{{width: 600, height: 800, text: "shared state"}}
	marshaller := bindings.NewMarshaller()

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			p := newPdfium(bindings.NewThreadSafeWith(fake, marshaller), nil)
			defer p.Close()

			doc, err := p.LoadDocumentFromBytes([]byte("%PDF-1.7"), "")
			if err != nil {
				return err
			}
			defer doc.Close()

			page, err := doc.Page(0)
			if err != nil {
				return err
			}
			defer page.Close()

			bmp, err := page.Render(RenderConfig{TargetWidth: 60})
			if err != nil {
				return err
			}
			defer bmp.Close()

			tp, err := page.Text()
			if err != nil {
				return err
			}
			defer tp.Close()
			_ = tp.Text()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, goroutines, fake.initCount)
	require.Equal(t, goroutines, fake.destroyCount)
	require.Empty(t, fake.openDocs, "every document must be closed")
	require.Empty(t, fake.openPages, "every page must be closed")
	require.Empty(t, fake.openText, "every text page must be closed")
	require.Len(t, fake.renders, goroutines)
}
