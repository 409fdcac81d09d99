// Copyright © 2026 The futurec authors

package lsp

import (
	"sort"
	"sync"

	"github.com/futurec/futurec/document"
)

// openDocument is an editor buffer tracked by the server. The document
// itself is immutable; each change replaces it.
type openDocument struct {
	doc     *document.Document
	version int32
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*openDocument
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*openDocument)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *document.Document {
	return s.set(uri, version, content)
}

// Change replaces a document's content (full sync).
func (s *DocumentStore) Change(uri string, version int32, content string) *document.Document {
	return s.set(uri, version, content)
}

func (s *DocumentStore) set(uri string, version int32, content string) *document.Document {
	doc := document.New(uri, content)
	s.mu.Lock()
	s.docs[uri] = &openDocument{doc: doc, version: version}
	s.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if od, ok := s.docs[uri]; ok {
		return od.doc
	}
	return nil
}

// Version returns the client version of an open document.
func (s *DocumentStore) Version(uri string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	od, ok := s.docs[uri]
	if !ok {
		return 0, false
	}
	return od.version, true
}

// All returns every open document, sorted by URI.
func (s *DocumentStore) All() []*document.Document {
	s.mu.RLock()
	docs := make([]*document.Document, 0, len(s.docs))
	for _, od := range s.docs {
		docs = append(docs, od.doc)
	}
	s.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}
