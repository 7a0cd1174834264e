// Package pdfium exposes a safe, idiomatic Go API over the PDFium library.
// Parsing and rendering happen inside PDFium itself; this package owns
// handle lifecycles, converts native failure codes into Go errors, and
// serializes access so that a single Pdfium instance can be shared across
// goroutines.
//
// Two backends are available: dynamic loading of a libpdfium shared library
// (BindToSystemLibrary, BindToLibrary), and an embedded WebAssembly build
// executed by wazero (BindToWebAssembly), which needs no native library on
// the host.
package pdfium
