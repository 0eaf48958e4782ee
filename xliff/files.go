package xliff

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// Converter converts a source document to XLIFF documents keyed by
// writing system.
type Converter func(filename string, r io.Reader, opts Options) (map[string]*Document, error)

// Reverser rebuilds a source document from XLIFF documents.
type Reverser func(docs []*Document) ([]byte, error)

// OutputFileName returns the file name of the XLIFF document converted
// from original: "<base>.xlf" for the source language and
// "<base>.<lang>.xlf" for the others.
func OutputFileName(original, lang string, source bool) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if source {
		return base + ".xlf"
	}
	return base + "." + lang + ".xlf"
}

// FileName returns the file name the document is written to.
func (d *Document) FileName() string {
	return OutputFileName(d.Original, d.TargetLanguage, d.IsSource())
}

// SortedLanguages returns the keys of docs, source language first.
func SortedLanguages(docs map[string]*Document) []string {
	var langs []string
	for lang := range docs {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		si, sj := docs[langs[i]].IsSource(), docs[langs[j]].IsSource()
		if si != sj {
			return si
		}
		return langs[i] < langs[j]
	})
	return langs
}

// WriteDocuments writes every document to outDir and returns the paths.
func WriteDocuments(outDir string, docs map[string]*Document) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	var files []string
	for _, lang := range SortedLanguages(docs) {
		doc := docs[lang]
		path := filepath.Join(outDir, doc.FileName())
		if err := writeDocumentFile(path, doc); err != nil {
			return nil, err
		}
		log.Debugf("wrote %s (%d targets)", path, doc.TargetCount())
		files = append(files, path)
	}
	return files, nil
}

func writeDocumentFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := doc.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// ConvertFile runs convert on the file at path and writes the result to
// outDir.
func ConvertFile(convert Converter, path, outDir string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	docs, err := convert(filepath.Base(path), f, opts)
	if err != nil {
		switch e := err.(type) {
		case *ShapeError:
			e.File = path
		case *util.FormatError:
			e.File = path
		}
		return nil, err
	}
	return WriteDocuments(outDir, docs)
}

// ReadDocument reads the XLIFF document at path.
func ReadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := ParseDocument(f)
	if err != nil {
		switch e := err.(type) {
		case *ShapeError:
			e.File = path
		case *util.FormatError:
			e.File = path
		}
		return nil, err
	}
	return doc, nil
}

// ReverseFiles reads the XLIFF documents in paths, rebuilds the source
// document with reverse and writes it to output.
func ReverseFiles(reverse Reverser, paths []string, output string) error {
	var docs []*Document
	for _, path := range paths {
		doc, err := ReadDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	data, err := reverse(docs)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(output, data, 0644)
}
