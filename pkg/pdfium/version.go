package pdfium

var (
	// Version is the semantic version of this wrapper, populated at build
	// time via ldflags. In development it defaults to the placeholder.
	Version = "v0.0.0-dev"
)

// WrapperVersion returns the semantic version of the Go wrapper. It says
// nothing about the PDFium build being wrapped; PDFium does not expose a
// version entry point.
func WrapperVersion() string {
	return Version
}
