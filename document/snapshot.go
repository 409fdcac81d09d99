// Copyright © 2026 The futurec authors

package document

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// ErrNotFound is returned when a document is not part of a Source.
var ErrNotFound = errors.New("document not found")

// Source is a read-only set of documents addressed by URI.
type Source interface {
	// URIs returns every document URI in the set, sorted.
	URIs() []string
	// Document returns the document for uri. Unknown URIs yield an error
	// wrapping ErrNotFound.
	Document(uri string) (*Document, error)
}

// Snapshot is a Source combining open editor buffers with files on disk.
// Buffers are copied when the snapshot is created. Disk files are read on
// first use and at most once, so a request never observes two versions
// of the same document.
type Snapshot struct {
	overlay map[string]*Document
	files   map[string]string // uri -> path
	uris    []string

	mu     sync.Mutex
	loaded map[string]*Document
	errs   map[string]error

	// ReadFile reads a disk file. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// NewSnapshot creates a snapshot. Open buffers in overlay shadow the disk
// files listed in paths.
func NewSnapshot(overlay []*Document, paths []string) *Snapshot {
	s := &Snapshot{
		overlay: make(map[string]*Document, len(overlay)),
		files:   make(map[string]string, len(paths)),
		loaded:  make(map[string]*Document),
		errs:    make(map[string]error),
	}
	for _, doc := range overlay {
		s.overlay[doc.URI] = doc
	}
	for _, path := range paths {
		uri := URIFromPath(path)
		if _, ok := s.overlay[uri]; ok {
			continue
		}
		s.files[uri] = path
	}
	for uri := range s.overlay {
		s.uris = append(s.uris, uri)
	}
	for uri := range s.files {
		s.uris = append(s.uris, uri)
	}
	sort.Strings(s.uris)
	return s
}

// FromTexts returns a snapshot made only of in-memory documents.
func FromTexts(texts map[string]string) *Snapshot {
	docs := make([]*Document, 0, len(texts))
	for uri, text := range texts {
		docs = append(docs, New(uri, text))
	}
	return NewSnapshot(docs, nil)
}

// URIs implements Source.
func (s *Snapshot) URIs() []string {
	out := make([]string, len(s.uris))
	copy(out, s.uris)
	return out
}

// Document implements Source.
func (s *Snapshot) Document(uri string) (*Document, error) {
	if doc, ok := s.overlay[uri]; ok {
		return doc, nil
	}
	path, ok := s.files[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.loaded[uri]; ok {
		return doc, nil
	}
	if err, ok := s.errs[uri]; ok {
		return nil, err
	}
	read := s.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
		s.errs[uri] = err
		return nil, err
	}
	doc := New(uri, string(data))
	s.loaded[uri] = doc
	return doc, nil
}
