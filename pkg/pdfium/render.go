package pdfium

import "errors"

// ErrBitmapSize reports a render request that resolves to a zero or
// negative pixel size.
var ErrBitmapSize = errors.New("pdfium: rendered bitmap size must be positive")

// Render flags, mirroring the FPDF_* render flag constants.
const (
	flagRenderAnnotations = 0x01 // FPDF_ANNOT
	flagOptimizeForLCD    = 0x02 // FPDF_LCD_TEXT
	flagGrayscale         = 0x08 // FPDF_GRAYSCALE
	flagRenderForPrinting = 0x800 // FPDF_PRINTING
)

// RenderConfig controls page rasterization. The zero value renders at
// one pixel per point with no rotation and no flags.
//
// If TargetWidth or TargetHeight is set, the page is scaled to that
// dimension with the aspect ratio preserved (when both are set, the
// tighter constraint wins). MaxWidth and MaxHeight then clamp the result,
// again preserving aspect ratio.
type RenderConfig struct {
	TargetWidth  int
	TargetHeight int
	MaxWidth     int
	MaxHeight    int

	// Rotation is applied at render time, on top of the page's
	// intrinsic rotation.
	Rotation Rotation

	RenderAnnotations bool
	OptimizeForLCD    bool
	Grayscale         bool
	ForPrinting       bool

	// WithAlpha renders onto a transparent BGRA bitmap instead of an
	// opaque white one.
	WithAlpha bool
}

func (c RenderConfig) flags() int {
	f := 0
	if c.RenderAnnotations {
		f |= flagRenderAnnotations
	}
	if c.OptimizeForLCD {
		f |= flagOptimizeForLCD
	}
	if c.Grayscale {
		f |= flagGrayscale
	}
	if c.ForPrinting {
		f |= flagRenderForPrinting
	}
	return f
}

func (c RenderConfig) alpha() bool { return c.WithAlpha }

// pixelSize resolves the configured scaling against a page size in points.
func (c RenderConfig) pixelSize(widthPts, heightPts float32) (int, int) {
	if widthPts <= 0 || heightPts <= 0 {
		return 0, 0
	}

	// Quarter-turn render rotation swaps the output axes.
	if c.Rotation == Rotation90 || c.Rotation == Rotation270 {
		widthPts, heightPts = heightPts, widthPts
	}

	scale := float32(1)
	switch {
	case c.TargetWidth > 0 && c.TargetHeight > 0:
		scale = min32(float32(c.TargetWidth)/widthPts, float32(c.TargetHeight)/heightPts)
	case c.TargetWidth > 0:
		scale = float32(c.TargetWidth) / widthPts
	case c.TargetHeight > 0:
		scale = float32(c.TargetHeight) / heightPts
	}

	if c.MaxWidth > 0 && widthPts*scale > float32(c.MaxWidth) {
		scale = float32(c.MaxWidth) / widthPts
	}
	if c.MaxHeight > 0 && heightPts*scale > float32(c.MaxHeight) {
		scale = float32(c.MaxHeight) / heightPts
	}

	return int(widthPts * scale), int(heightPts * scale)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
