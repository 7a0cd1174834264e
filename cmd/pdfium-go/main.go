// Command pdfium-go is a smoke-test binary: it binds the PDFium shared
// library and, when given a PDF file, prints a short summary of it. Useful
// for checking that a deployment actually has a loadable PDFium build.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/pagemill/pdfium-go/pkg/pdfium"
)

func main() {
	log.Printf("pdfium-go version: %s", pdfium.WrapperVersion())

	var (
		p   *pdfium.Pdfium
		err error
	)
	if path := os.Getenv("PDFIUM_LIBRARY_PATH"); path != "" {
		p, err = pdfium.BindToLibrary(path)
	} else {
		p, err = pdfium.BindToSystemLibrary()
	}
	if err != nil {
		if errors.Is(err, pdfium.ErrNotBuilt) || errors.Is(err, pdfium.ErrLibraryNotFound) {
			fmt.Printf("library unavailable: %v\n", err)
			return
		}
		log.Fatalf("unexpected failure binding library: %v", err)
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			log.Printf("close error: %v", cerr)
		}
	}()

	fmt.Println("library bound successfully")

	if len(os.Args) < 2 {
		return
	}

	doc, err := p.LoadDocumentFromFile(os.Args[1], "")
	if err != nil {
		log.Fatalf("load %s: %v", os.Args[1], err)
	}
	defer doc.Close()

	count, err := doc.PageCount()
	if err != nil {
		log.Fatal(err)
	}
	meta, err := doc.Metadata()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %d pages, title %q\n", os.Args[1], count, meta.Title)
}
