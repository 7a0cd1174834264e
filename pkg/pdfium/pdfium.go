package pdfium

import (
	"context"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/pagemill/pdfium-go/internal/bindings"
)

// Pdfium owns a session of library use. Construction initializes PDFium and
// acquires exclusive access to it; Close tears the library down and releases
// that access, unblocking the next waiting instance. Between the two, every
// method on the instance and its documents may be called from any goroutine:
// the thread marshaller serializes everything onto the library.
//
// Hold one instance per logical unit of work and always pair construction
// with Close (typically via defer), including on error paths. An instance
// that is never closed starves every other instance in the process.
type Pdfium struct {
	bindings bindings.Bindings
	wasm     *bindings.WebAssembly

	mu     sync.Mutex
	closed bool
}

// SetLogger routes internal diagnostics (library loading, wasm
// instantiation, marshaller faults) to the given zap logger. Logging is
// disabled by default. Call before constructing any instance.
func SetLogger(l *zap.Logger) {
	bindings.SetLogger(l)
}

// BindToSystemLibrary loads the platform's conventional PDFium shared
// library (libpdfium.so, libpdfium.dylib) from the system search path.
func BindToSystemLibrary() (*Pdfium, error) {
	return BindToLibrary("")
}

// BindToLibrary loads the PDFium shared library at the given path. The
// returned instance holds exclusive access to PDFium until Close; see the
// Pdfium type for the locking contract.
func BindToLibrary(path string) (*Pdfium, error) {
	raw, err := bindings.NewDynamic(path)
	if err != nil {
		return nil, err
	}
	// All dynamically loaded copies share native global state, so every
	// instance contends on the process-wide marshaller.
	return newPdfium(bindings.NewThreadSafe(raw), nil), nil
}

// BindToWebAssembly instantiates a PDFium WebAssembly build inside an
// embedded wazero runtime. Each call creates an isolated guest with its own
// memory and its own marshaller: two WebAssembly-backed instances do not
// block each other, because they share no native state.
func BindToWebAssembly(ctx context.Context, wasmBinary []byte) (*Pdfium, error) {
	raw, err := bindings.NewWebAssembly(ctx, wasmBinary)
	if err != nil {
		return nil, err
	}
	return newPdfium(bindings.NewThreadSafeWith(raw, bindings.NewMarshaller()), raw), nil
}

// newPdfium brackets the session: the library is initialized here and torn
// down in Close.
func newPdfium(b bindings.Bindings, wasm *bindings.WebAssembly) *Pdfium {
	b.InitLibrary()
	p := &Pdfium{bindings: b, wasm: wasm}
	runtime.SetFinalizer(p, func(p *Pdfium) { _ = p.Close() })
	return p
}

// Close destroys the library session and releases exclusive access to
// PDFium. Documents and pages opened through this instance must be closed
// first. Close is idempotent, returning ErrClosed when called twice.
func (p *Pdfium) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true

	runtime.SetFinalizer(p, nil)
	p.bindings.DestroyLibrary()
	if p.wasm != nil {
		return p.wasm.Close(context.Background())
	}
	return nil
}

func (p *Pdfium) alive() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return nil
}

// LoadDocumentFromBytes parses a PDF held in memory. data must not be
// mutated until the document is closed; PDFium reads from it lazily. Pass an
// empty password for unprotected documents.
func (p *Pdfium) LoadDocumentFromBytes(data []byte, password string) (*Document, error) {
	if err := p.alive(); err != nil {
		return nil, err
	}
	handle := p.bindings.LoadMemDocument(data, password)
	if handle == 0 {
		return nil, lastErrorToError(p.bindings.LastError())
	}
	d := &Document{pdfium: p, handle: handle}
	runtime.SetFinalizer(d, func(d *Document) { _ = d.Close() })
	return d, nil
}

// LoadDocumentFromFile reads the file at path into memory and parses it.
// Loading through memory sidesteps platform path-encoding differences in
// the native file APIs.
func (p *Pdfium) LoadDocumentFromFile(path string, password string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.LoadDocumentFromBytes(data, password)
}
