// Package bindings contains all foreign-function plumbing for PDFium.
//
// # Design Principles
//
//  1. Isolation: ALL FFI code (purego and wazero) lives in this package. No
//     other package may load symbols or touch guest memory. The
//     internalcheck tests enforce this.
//
//  2. Mechanical Surface: the Bindings interface mirrors PDFium entry points
//     one-for-one. No abstraction beyond "one method per native entry point,
//     plus the thread marshaller wrapping the lifecycle pair" lives here.
//
//  3. Raw Values: implementations forward native return values unchanged.
//     A zero handle means failure; callers consult LastError. Error
//     interpretation belongs to the public wrapper package.
//
//  4. Memory Management: document buffers passed to PDFium must outlive the
//     document. Each backend keeps its own registry and releases buffers on
//     CloseDocument.
//
// # Threading
//
// PDFium is NOT thread-safe. The library authors recommend process-level
// parallelism, not threads, for concurrent workloads. Wrap any backend in
// NewThreadSafe before sharing it across goroutines; see thread_safe.go.
package bindings
