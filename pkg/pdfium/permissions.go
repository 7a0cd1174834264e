package pdfium

// Permission bit positions from the PDF specification's standard security
// handler (table 22, ISO 32000-1). PDFium reports all bits set for
// unencrypted documents.
const (
	permPrint                = 1 << 2
	permModify               = 1 << 3
	permCopy                 = 1 << 4
	permAnnotate             = 1 << 5
	permFillForms            = 1 << 8
	permExtractAccessibility = 1 << 9
	permAssemble             = 1 << 10
	permPrintHighQuality     = 1 << 11
)

// Permissions exposes the document's access permission flags. The zero
// value denies everything.
type Permissions struct {
	bits     uint32
	revision int
}

// Bits returns the raw permission flags word.
func (p Permissions) Bits() uint32 { return p.bits }

// SecurityHandlerRevision returns the revision of the security handler, or
// -1 for unencrypted documents.
func (p Permissions) SecurityHandlerRevision() int { return p.revision }

func (p Permissions) has(bit uint32) bool { return p.bits&bit != 0 }

// CanPrint reports whether printing is permitted.
func (p Permissions) CanPrint() bool { return p.has(permPrint) }

// CanModify reports whether content modification is permitted.
func (p Permissions) CanModify() bool { return p.has(permModify) }

// CanCopy reports whether text and graphics extraction is permitted.
func (p Permissions) CanCopy() bool { return p.has(permCopy) }

// CanAnnotate reports whether adding or modifying annotations is permitted.
func (p Permissions) CanAnnotate() bool { return p.has(permAnnotate) }

// CanFillForms reports whether filling form fields is permitted even when
// CanAnnotate is false. Meaningful for handler revision 3 and later.
func (p Permissions) CanFillForms() bool { return p.has(permFillForms) }

// CanExtractForAccessibility reports whether extraction in support of
// accessibility is permitted.
func (p Permissions) CanExtractForAccessibility() bool { return p.has(permExtractAccessibility) }

// CanAssemble reports whether inserting, rotating, or deleting pages is
// permitted.
func (p Permissions) CanAssemble() bool { return p.has(permAssemble) }

// CanPrintHighQuality reports whether full-resolution printing is permitted.
func (p Permissions) CanPrintHighQuality() bool { return p.has(permPrintHighQuality) }
