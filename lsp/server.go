// Copyright © 2026 The futurec authors

// Package lsp implements a Language Server Protocol server for futurec
// scripts. It provides live diagnostics, hover, completion, signature
// help, go-to-definition and references for script numbers, symbols,
// folding, and the custom requests used by the editor extension.
package lsp

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/lint"
)

const (
	serverName = "futurec-lsp"

	// LanguageID is the language identifier clients use for script files.
	LanguageID = "futurec"

	// DefaultDebounce is the delay between the last edit and the
	// diagnostics run.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultCheckTimeout bounds whole-graph checks.
	DefaultCheckTimeout = 2 * time.Minute
)

var log = commonlog.GetLogger("futurec.lsp")

// Server is the futurec language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	// Parser function catalog, loaded from the workspace at initialize
	// unless set by WithCatalog.
	catalogMu    sync.RWMutex
	catalog      *analysis.Catalog
	catalogFixed bool

	extensions   []string
	checkTimeout time.Duration

	linter *lint.Linter
	cache  *parseCache

	// Debouncer for didChange notifications.
	debounceDelay time.Duration
	debounceMu    sync.Mutex
	debounce      map[string]*time.Timer

	// Background whole-graph checks by focal URI. baseCtx is cancelled on
	// shutdown.
	checkMu    sync.Mutex
	checks     map[string]*checkRun
	checkSeq   int
	checkWG    sync.WaitGroup
	baseCtx    context.Context
	cancelBase context.CancelFunc

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithCatalog fixes the parser function catalog. The workspace catalog
// file is then ignored.
func WithCatalog(c *analysis.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
		s.catalogFixed = c != nil
	}
}

// WithExtensions sets the host file extensions scanned for scripts.
func WithExtensions(exts []string) Option {
	return func(s *Server) { s.extensions = exts }
}

// WithWorkers bounds the concurrency of whole-graph checks.
func WithWorkers(n int) Option {
	return func(s *Server) { s.linter.Workers = n }
}

// WithRoot sets the workspace root used until the client sends one.
func WithRoot(path string) Option {
	return func(s *Server) {
		s.rootPath = path
		s.rootURI = document.URIFromPath(path)
	}
}

// WithDebounce sets the delay between an edit and its diagnostics run.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounceDelay = d }
}

// WithCheckTimeout bounds whole-graph checks. Zero disables the bound.
func WithCheckTimeout(d time.Duration) Option {
	return func(s *Server) { s.checkTimeout = d }
}

// New creates a new futurec LSP server.
func New(opts ...Option) *Server {
	linter := &lint.Linter{}
	s := &Server{
		docs:          NewDocumentStore(),
		linter:        linter,
		cache:         newParseCache(linter),
		debounceDelay: DefaultDebounce,
		debounce:      make(map[string]*time.Timer),
		checks:        make(map[string]*checkRun),
		checkTimeout:  DefaultCheckTimeout,
		exitFn:        os.Exit,
	}
	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentSignatureHelp:  s.textDocumentSignatureHelp,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,
		TextDocumentCodeAction:     s.textDocumentCodeAction,
		WorkspaceSymbol:            s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(s.dispatcher(), serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = document.PathFromURI(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = document.URIFromPath(s.rootPath)
	}
	s.loadCatalog()

	capabilities := s.handler.CreateServerCapabilities()

	// Override text document sync to full.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", " "},
	}

	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters:   []string{"(", ","},
		RetriggerCharacters: []string{","},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// loadCatalog reads the workspace catalog. A broken catalog file is
// logged and replaced by the built-in one.
func (s *Server) loadCatalog() {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	if s.catalogFixed {
		return
	}
	c, path, err := analysis.FindCatalog(s.rootPath)
	if err != nil {
		log.Warningf("loading catalog %s: %s", path, err)
		c = analysis.DefaultCatalog()
	} else if path != "" {
		log.Info("loaded catalog", "path", path, "namespaces", len(c.Namespaces))
	}
	s.catalog = c
	s.cache.reset()
}

func (s *Server) getCatalog() *analysis.Catalog {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	if s.catalog == nil {
		return analysis.DefaultCatalog()
	}
	return s.catalog
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(_ *glsp.Context) error {
	// Cancel any pending debounce timers.
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()

	// Stop background checks.
	s.cancelBase()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// openWorkspace returns a workspace made only of the open documents. It
// serves requests that never look outside the current document.
func (s *Server) openWorkspace() *analysis.Workspace {
	return analysis.NewWorkspace(document.NewSnapshot(s.docs.All(), nil), s.getCatalog())
}

// fullWorkspace returns a snapshot of the open documents and every host
// file under the workspace root. The file list is taken fresh on each
// call.
func (s *Server) fullWorkspace() (*analysis.Workspace, error) {
	var paths []string
	if s.rootPath != "" {
		var err error
		paths, err = analysis.ScanWorkspace(s.rootPath, s.extensions)
		if err != nil {
			return nil, err
		}
	}
	snap := document.NewSnapshot(s.docs.All(), paths)
	return analysis.NewWorkspace(snap, s.getCatalog()), nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
