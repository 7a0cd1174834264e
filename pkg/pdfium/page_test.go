package pdfium

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestPage(t *testing.T, fake *fakeLib) *Page {
	t.Helper()
	_, doc := loadTestDoc(t, fake)
	page, err := doc.Page(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })
	return page
}

func TestPageGeometry(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 612, height: 792, rotation: 1}}

	page := loadTestPage(t, fake)

	w, err := page.Width()
	require.NoError(t, err)
	assert.InDelta(t, 612, w, 0.001)

	h, err := page.Height()
	require.NoError(t, err)
	assert.InDelta(t, 792, h, 0.001)

	rot, err := page.Rotation()
	require.NoError(t, err)
	assert.Equal(t, Rotation90, rot)
	assert.Equal(t, 90, rot.Degrees())

	assert.Equal(t, 0, page.Index())
}

func TestRenderConfigPixelSize(t *testing.T) {
	tests := []struct {
		name           string
		cfg            RenderConfig
		wantW, wantH   int
	}{
		{"identity", RenderConfig{}, 600, 800},
		{"target width", RenderConfig{TargetWidth: 300}, 300, 400},
		{"target height", RenderConfig{TargetHeight: 400}, 300, 400},
		{"both targets tighter wins", RenderConfig{TargetWidth: 600, TargetHeight: 400}, 300, 400},
		{"max height clamps", RenderConfig{TargetWidth: 600, MaxHeight: 400}, 300, 400},
		{"max width clamps identity", RenderConfig{MaxWidth: 150}, 150, 200},
		{"rotation swaps axes", RenderConfig{TargetWidth: 400, Rotation: Rotation90}, 400, 300},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := tc.cfg.pixelSize(600, 800)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestPageRender(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 600, height: 800}}

	page := loadTestPage(t, fake)

	bmp, err := page.Render(RenderConfig{
		TargetWidth:       300,
		Rotation:          Rotation180,
		RenderAnnotations: true,
		OptimizeForLCD:    true,
	})
	require.NoError(t, err)
	defer bmp.Close()

	assert.Equal(t, 300, bmp.Width())
	assert.Equal(t, 400, bmp.Height())
	assert.Equal(t, FormatBGRx, bmp.Format())

	require.Len(t, fake.renders, 1)
	call := fake.renders[0]
	assert.Equal(t, 300, call.width)
	assert.Equal(t, 400, call.height)
	assert.Equal(t, int(Rotation180), call.rotate)
	assert.Equal(t, flagRenderAnnotations|flagOptimizeForLCD, call.flags)
}

func TestPageRenderWithAlpha(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 100, height: 100}}

	page := loadTestPage(t, fake)

	bmp, err := page.Render(RenderConfig{WithAlpha: true})
	require.NoError(t, err)
	defer bmp.Close()

	assert.Equal(t, FormatBGRA, bmp.Format())
}

func TestPageRenderInvalidSize(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 0, height: 0}}

	page := loadTestPage(t, fake)

	_, err := page.Render(RenderConfig{})
	assert.ErrorIs(t, err, ErrBitmapSize)
}

func TestBitmapImageSwizzle(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 2, height: 1}}

	page := loadTestPage(t, fake)

	bmp, err := page.Render(RenderConfig{WithAlpha: true})
	require.NoError(t, err)
	defer bmp.Close()

	// The fake fills the whole bitmap with the ARGB background color the
	// wrapper requested. 0xFFFFFFFF is white; paint something asymmetric
	// instead to catch channel swaps.
	fake.BitmapFillRect(fake.lastBitmapHandle(), 0, 0, 2, 1, 0x80112233)

	img, err := bmp.Image()
	require.NoError(t, err)
	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0x11), r>>8)
	assert.Equal(t, uint32(0x22), g>>8)
	assert.Equal(t, uint32(0x33), b>>8)
	assert.Equal(t, uint32(0x80), a>>8)
}

func TestBitmapEncodeBMP(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 4, height: 4}}

	page := loadTestPage(t, fake)

	bmp, err := page.Render(RenderConfig{})
	require.NoError(t, err)
	defer bmp.Close()

	var buf bytes.Buffer
	require.NoError(t, bmp.EncodeBMP(&buf))
	assert.Equal(t, []byte("BM"), buf.Bytes()[:2])
}

func TestBitmapGrayImageRejectsColor(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 2, height: 2}}

	page := loadTestPage(t, fake)

	bmp, err := page.Render(RenderConfig{})
	require.NoError(t, err)
	defer bmp.Close()

	_, err = bmp.GrayImage()
	assert.ErrorIs(t, err, ErrBitmapFormat)
}

func TestPageCloseIdempotent(t *testing.T) {
	fake := newFakeLib()
	fake.pages = []fakePage{{width: 10, height: 10}}

	_, doc := loadTestDoc(t, fake)
	page, err := doc.Page(0)
	require.NoError(t, err)

	require.NoError(t, page.Close())
	assert.ErrorIs(t, page.Close(), ErrPageClosed)
	assert.Empty(t, fake.openPages)

	_, err = page.Width()
	assert.ErrorIs(t, err, ErrPageClosed)
}
