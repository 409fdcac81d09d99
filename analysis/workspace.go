// Copyright © 2026 The futurec authors

package analysis

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/futurec/futurec/document"
)

// DefaultExtensions are the host file extensions scanned for scripts.
var DefaultExtensions = []string{".cpp"}

// ScanWorkspace walks a directory tree and returns the paths of all host
// files whose extension is in exts (case-insensitive), sorted. Hidden
// directories and node_modules are skipped. Unreadable directories are
// skipped silently.
func ScanWorkspace(root string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		want[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if want[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}

// Workspace is the request-scoped view the resolver and parser work
// against: a document source plus the parser function catalog. Script
// scans and the workspace index are computed lazily and cached for the
// lifetime of the Workspace, which is safe for concurrent use.
type Workspace struct {
	Source  document.Source
	Catalog *Catalog

	mu    sync.Mutex
	scans map[string][]*Script

	indexOnce sync.Once
	index     *Index
	indexErr  error
}

// NewWorkspace returns a Workspace over src. The catalog may be nil.
func NewWorkspace(src document.Source, catalog *Catalog) *Workspace {
	return &Workspace{
		Source:  src,
		Catalog: catalog,
		scans:   make(map[string][]*Script),
	}
}

// Document returns the document for uri.
func (ws *Workspace) Document(uri string) (*document.Document, error) {
	return ws.Source.Document(uri)
}

// Scripts returns the script blocks of the document at uri in textual
// order.
func (ws *Workspace) Scripts(uri string) ([]*Script, error) {
	ws.mu.Lock()
	scripts, ok := ws.scans[uri]
	ws.mu.Unlock()
	if ok {
		return scripts, nil
	}
	doc, err := ws.Source.Document(uri)
	if err != nil {
		return nil, err
	}
	scripts = ScanScripts(doc)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if cached, ok := ws.scans[uri]; ok {
		return cached, nil
	}
	ws.scans[uri] = scripts
	return scripts, nil
}

// Index returns the registry of every block in the workspace. It fails
// only when a document cannot be read.
func (ws *Workspace) Index() (*Index, error) {
	ws.indexOnce.Do(func() {
		ix := &Index{
			defs:       make(map[int][]*Script),
			insertions: make(map[int][]*Script),
		}
		for _, uri := range ws.Source.URIs() {
			scripts, err := ws.Scripts(uri)
			if err != nil {
				ws.indexErr = err
				return
			}
			for _, s := range scripts {
				ix.add(s)
			}
		}
		ws.index = ix
	})
	return ws.index, ws.indexErr
}

// Index maps script ids to the blocks defining them. Blocks are ordered
// by document URI and then by offset.
type Index struct {
	scripts    []*Script
	defs       map[int][]*Script
	insertions map[int][]*Script
}

func (ix *Index) add(s *Script) {
	ix.scripts = append(ix.scripts, s)
	if s.ID < 0 {
		return
	}
	if s.Kind == KindInsertion {
		ix.insertions[s.ID] = append(ix.insertions[s.ID], s)
		return
	}
	ix.defs[s.ID] = append(ix.defs[s.ID], s)
}

// Scripts returns every block in the workspace.
func (ix *Index) Scripts() []*Script {
	return ix.scripts
}

// Lookup returns the first definition of script id, or nil.
func (ix *Index) Lookup(id int) *Script {
	if defs := ix.defs[id]; len(defs) > 0 {
		return defs[0]
	}
	return nil
}

// Definitions returns every SCRIPT block declaring id.
func (ix *Index) Definitions(id int) []*Script {
	return ix.defs[id]
}

// Insertions returns the INSERTINTOSCRIPT blocks targeting script id.
func (ix *Index) Insertions(id int) []*Script {
	return ix.insertions[id]
}

// IDs returns every defined script id, sorted.
func (ix *Index) IDs() []int {
	ids := make([]int, 0, len(ix.defs))
	for id := range ix.defs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IncludeSite is an includescript occurrence within a block.
type IncludeSite struct {
	Script  *Script
	Include Include
}

// IncludeSites returns every includescript occurrence referencing id.
func (ix *Index) IncludeSites(id int) []IncludeSite {
	var sites []IncludeSite
	for _, s := range ix.scripts {
		for _, inc := range s.Includes {
			if inc.Valid && inc.ID == id {
				sites = append(sites, IncludeSite{Script: s, Include: inc})
			}
		}
	}
	return sites
}
