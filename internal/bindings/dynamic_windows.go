//go:build windows

package bindings

// Dynamic loading uses dlopen via purego, which is unavailable on Windows.
// The WebAssembly backend works everywhere and is the supported path there.

func NewDynamic(string) (Bindings, error) {
	return nil, ErrNotBuilt
}

// PlatformLibraryName returns the conventional PDFium shared-library file
// name for the current platform.
func PlatformLibraryName() string { return "pdfium.dll" }
