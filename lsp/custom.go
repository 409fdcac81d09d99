// Copyright © 2026 The futurec authors

package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/parser/rdparser"
)

// Custom methods used by the editor extension.
const (
	MethodGetCursorContext      = "custom/GetCursorContext"
	MethodParseScript           = "custom/ParseScript"
	MethodGetReachableScripts   = "custom/GetReachableScripts"
	MethodGetDiagnosticsForAll  = "custom/GetDiagnosticsForAllScripts"
	MethodCheckAllScripts       = "custom/checkAllScripts"
	MethodCancelCheckAllScripts = "custom/cancelCheckAllScripts"
	MethodCheckProgress         = "custom/checkProgress"
	MethodGetScriptNumber       = "custom/GetScriptNumber"
	MethodJumpToStartOfScript   = "custom/jump.to.start.of.script"
	MethodGetHookStart          = "custom/getHookStart"
	MethodCollectStatistics     = "custom/CollectStatisticsForCurrentScript"
)

// notDefined is the name reported for positions outside any block.
const notDefined = "NOT DEFINED"

var errNotInitialized = errors.New("server not initialized")

type customFunc func(ctx *glsp.Context) (any, bool, error)

// dispatcher routes the custom methods and hands everything else to the
// standard protocol handler.
type dispatcher struct {
	protocol *protocol.Handler
	custom   map[string]customFunc
}

func (s *Server) dispatcher() *dispatcher {
	return &dispatcher{
		protocol: &s.handler,
		custom: map[string]customFunc{
			MethodGetCursorContext:      request(s.getCursorContext),
			MethodParseScript:           request(s.parseScript),
			MethodGetReachableScripts:   request(s.getReachableScripts),
			MethodGetDiagnosticsForAll:  request(s.getDiagnosticsForAllScripts),
			MethodCheckAllScripts:       request(s.checkAllScripts),
			MethodCancelCheckAllScripts: request(s.cancelCheckAllScripts),
			MethodGetScriptNumber:       request(s.getScriptNumber),
			MethodJumpToStartOfScript:   request(s.jumpToStartOfScript),
			MethodGetHookStart:          request(s.getHookStart),
			MethodCollectStatistics:     request(s.collectStatistics),
		},
	}
}

// Handle implements glsp.Handler.
func (d *dispatcher) Handle(ctx *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	fn, ok := d.custom[ctx.Method]
	if !ok {
		return d.protocol.Handle(ctx)
	}
	if !d.protocol.IsInitialized() {
		return nil, true, true, errNotInitialized
	}
	r, validParams, err = fn(ctx)
	return r, true, validParams, err
}

// request adapts a typed handler to a customFunc. Params that fail to
// decode are reported as invalid.
func request[P any, R any](fn func(*glsp.Context, *P) (R, error)) customFunc {
	return func(ctx *glsp.Context) (any, bool, error) {
		var params P
		if len(ctx.Params) > 0 {
			if err := json.Unmarshal(ctx.Params, &params); err != nil {
				return nil, false, err
			}
		}
		r, err := fn(ctx, &params)
		return r, true, err
	}
}

// uriPosParams is the {uri, pos} payload of the whole-graph requests.
type uriPosParams struct {
	URI string            `json:"uri"`
	Pos protocol.Position `json:"pos"`
}

// docPosParams is the {doc, pos} payload of the script-at-cursor requests.
type docPosParams struct {
	Doc string            `json:"doc"`
	Pos protocol.Position `json:"pos"`
}

type parseScriptParams struct {
	protocol.TextDocumentPositionParams
	Strict bool `json:"strict"`
}

type reachableParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

type cancelParams struct {
	URI string `json:"uri"`
}

type hookStartParams struct {
	URI             string            `json:"uri"`
	Name            string            `json:"name"`
	Number          int               `json:"number"`
	Pos             protocol.Position `json:"pos"`
	OldDoc          string            `json:"oldDoc"`
	DontCheckOldDoc bool              `json:"dontCheckOldDoc"`
}

// CursorContext is the result of custom/GetCursorContext.
type CursorContext struct {
	Text     string              `json:"text"`
	First    string              `json:"first"`
	AtCursor string              `json:"atCursor"`
	Kind     analysis.CursorKind `json:"kind"`
}

// ScriptInfo describes one block in custom request results.
type ScriptInfo struct {
	ID    int            `json:"id"`
	Name  string         `json:"name"`
	URI   string         `json:"uri"`
	Range document.Range `json:"range"`
	Hooks []string       `json:"hooks"`
	Kind  analysis.Kind  `json:"kind"`
}

// ParseScriptResult is the result of custom/ParseScript.
type ParseScriptResult struct {
	Script ScriptInfo `json:"script"`
	*rdparser.ParseResult
	Version *int32 `json:"version,omitempty"`
}

// ReachableScripts is the result of custom/GetReachableScripts.
type ReachableScripts struct {
	Scripts     []ScriptInfo            `json:"scripts"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// ScriptNumber is the result of custom/GetScriptNumber.
type ScriptNumber struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// HookStart is the result of custom/getHookStart. PosScript.Line is -1
// when the block already exists, PosToc.Line likewise.
type HookStart struct {
	PosScript document.Position  `json:"posScript"`
	PosToc    document.Position  `json:"posToc"`
	Existing  *document.Position `json:"existing,omitempty"`
}

// CheckProgress is the payload of custom/checkProgress notifications.
type CheckProgress struct {
	URI       string `json:"uri"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	Script    string `json:"script,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Errors    int    `json:"errors,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

func newScriptInfo(sc *analysis.Script) ScriptInfo {
	info := ScriptInfo{
		ID:    sc.ID,
		Name:  sc.Name,
		URI:   sc.URI,
		Range: sc.Range,
		Hooks: []string{},
		Kind:  sc.Kind,
	}
	for _, h := range sc.Hooks {
		if !h.Malformed {
			info.Hooks = append(info.Hooks, h.Name)
		}
	}
	return info
}

func runeString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

func (s *Server) getCursorContext(_ *glsp.Context, params *protocol.TextDocumentPositionParams) (*CursorContext, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return &CursorContext{Kind: analysis.CursorError}, nil
	}
	info := analysis.Classify(doc, fromLSPPosition(params.Position))
	return &CursorContext{
		Text:     info.Text,
		First:    runeString(info.First),
		AtCursor: runeString(info.AtCursor),
		Kind:     info.Kind,
	}, nil
}

// parseScript parses the block at the cursor. Strict parses see the
// whole workspace.
func (s *Server) parseScript(_ *glsp.Context, params *parseScriptParams) (*ParseScriptResult, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	sc := scriptAt(doc, params.Position)
	if sc == nil {
		return nil, nil
	}

	var (
		res *rdparser.ParseResult
		err error
	)
	if params.Strict {
		var ws *analysis.Workspace
		if ws, err = s.fullWorkspace(); err != nil {
			return nil, err
		}
		res, err = rdparser.Parse(ws, sc, true)
	} else {
		res, err = s.cache.parse(s.baseCtx, s.openWorkspace(), doc, sc)
	}
	if err != nil {
		return nil, err
	}
	out := &ParseScriptResult{Script: newScriptInfo(sc), ParseResult: res}
	if v, ok := s.docs.Version(doc.URI); ok {
		out.Version = &v
	}
	return out, nil
}

func (s *Server) getReachableScripts(_ *glsp.Context, params *reachableParams) (*ReachableScripts, error) {
	ws, err := s.fullWorkspace()
	if err != nil {
		return nil, err
	}
	res, err := analysis.AllScripts(ws, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	out := &ReachableScripts{
		Scripts:     make([]ScriptInfo, 0, len(res.Scripts)),
		Diagnostics: res.Diagnostics,
	}
	for _, sc := range res.Scripts {
		out.Scripts = append(out.Scripts, newScriptInfo(sc))
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []diagnostic.Diagnostic{}
	}
	return out, nil
}

// getDiagnosticsForAllScripts runs the whole-graph check synchronously,
// publishes the result per document, and returns it.
func (s *Server) getDiagnosticsForAllScripts(ctx *glsp.Context, params *uriPosParams) ([]diagnostic.Diagnostic, error) {
	s.captureNotify(ctx)
	runCtx, cancel := s.checkContext()
	defer cancel()
	diags, err := s.runCheck(runCtx, params.URI, s.linter.Progress)
	if err != nil {
		return nil, err
	}
	if diags == nil {
		diags = []diagnostic.Diagnostic{}
	}
	return diags, nil
}

func (s *Server) checkContext() (context.Context, context.CancelFunc) {
	if s.checkTimeout > 0 {
		return context.WithTimeout(s.baseCtx, s.checkTimeout)
	}
	return context.WithCancel(s.baseCtx)
}

// runCheck checks every block reachable from uri and publishes the
// errors of each document in the reachable set. Open documents also get
// their live diagnostics so warnings survive the publish.
func (s *Server) runCheck(ctx context.Context, uri string, progress func(done, total int, sc *analysis.Script)) ([]diagnostic.Diagnostic, error) {
	ws, err := s.fullWorkspace()
	if err != nil {
		return nil, err
	}
	res, err := analysis.AllScripts(ws, uri)
	if err != nil {
		return nil, err
	}
	l := *s.linter
	l.Progress = progress
	diags, err := l.CheckAll(ctx, ws, uri)
	if err != nil {
		return nil, err
	}

	byURI := map[string][]diagnostic.Diagnostic{uri: nil}
	for _, sc := range res.Scripts {
		byURI[sc.URI] = nil
	}
	for _, d := range diags {
		byURI[d.URI] = append(byURI[d.URI], d)
	}
	for u, ds := range byURI {
		if doc := s.docs.Get(u); doc != nil {
			ds = mergeDiagnostics(ds, s.liveDiagnostics(ws, doc))
		}
		s.publish(u, ds)
	}
	return diags, nil
}

// mergeDiagnostics appends the entries of extra not already in diags.
func mergeDiagnostics(diags, extra []diagnostic.Diagnostic) []diagnostic.Diagnostic {
	type key struct {
		r    document.Range
		code string
		msg  string
	}
	seen := make(map[key]bool, len(diags))
	for _, d := range diags {
		seen[key{d.Range, d.Code, d.Message}] = true
	}
	for _, d := range extra {
		k := key{d.Range, d.Code, d.Message}
		if !seen[k] {
			seen[k] = true
			diags = append(diags, d)
		}
	}
	diagnostic.Sort(diags)
	return diags
}

// checkRun is a background whole-graph check.
type checkRun struct {
	cancel context.CancelFunc
	id     int
}

// checkAllScripts starts a background check for uri, cancelling an
// earlier run for the same document. Progress is reported with
// custom/checkProgress notifications.
func (s *Server) checkAllScripts(ctx *glsp.Context, params *uriPosParams) (any, error) {
	s.captureNotify(ctx)
	uri := params.URI

	s.checkMu.Lock()
	if prev, ok := s.checks[uri]; ok {
		prev.cancel()
	}
	s.checkSeq++
	runCtx, cancel := s.checkContext()
	run := &checkRun{cancel: cancel, id: s.checkSeq}
	s.checks[uri] = run
	s.checkMu.Unlock()

	s.checkWG.Add(1)
	go func() {
		defer s.checkWG.Done()
		defer s.finishCheck(uri, run)
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("check of %s panicked: %v", uri, r)
			}
		}()

		progress := func(done, total int, sc *analysis.Script) {
			s.sendNotification(MethodCheckProgress, &CheckProgress{
				URI:    uri,
				Done:   done,
				Total:  total,
				Script: sc.String(),
			})
		}
		diags, err := s.runCheck(runCtx, uri, progress)
		final := &CheckProgress{URI: uri, Finished: true, Errors: len(diags)}
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			final.Cancelled = true
			log.Info("check cancelled", "uri", uri, "run", run.id)
		case err != nil:
			log.Errorf("check of %s: %s", uri, err)
		default:
			log.Debug("check finished", "uri", uri, "errors", len(diags))
		}
		s.sendNotification(MethodCheckProgress, final)
	}()
	return nil, nil
}

func (s *Server) finishCheck(uri string, run *checkRun) {
	run.cancel()
	s.checkMu.Lock()
	if s.checks[uri] == run {
		delete(s.checks, uri)
	}
	s.checkMu.Unlock()
}

func (s *Server) cancelCheckAllScripts(_ *glsp.Context, params *cancelParams) (any, error) {
	s.checkMu.Lock()
	run, ok := s.checks[params.URI]
	s.checkMu.Unlock()
	if ok {
		run.cancel()
	}
	return nil, nil
}

func (s *Server) getScriptNumber(_ *glsp.Context, params *docPosParams) (*ScriptNumber, error) {
	doc := s.docs.Get(params.Doc)
	if doc == nil {
		return &ScriptNumber{Name: notDefined}, nil
	}
	sc := scriptAt(doc, params.Pos)
	if sc == nil || sc.ID < 0 {
		return &ScriptNumber{Name: notDefined}, nil
	}
	return &ScriptNumber{Number: sc.ID, Name: sc.Name}, nil
}

func (s *Server) jumpToStartOfScript(_ *glsp.Context, params *protocol.TextDocumentPositionParams) (*protocol.Position, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	sc := scriptAt(doc, params.Position)
	if sc == nil {
		return nil, nil
	}
	pos := toLSPPosition(sc.HeaderRange.Start)
	return &pos, nil
}

// getHookStart finds where a new script or hook insertion block for
// params.Number belongs in the document at params.URI. The old document
// is also searched for an existing block unless DontCheckOldDoc is set.
func (s *Server) getHookStart(_ *glsp.Context, params *hookStartParams) (*HookStart, error) {
	ws, err := s.fullWorkspace()
	if err != nil {
		return nil, err
	}
	doc, err := ws.Document(params.URI)
	if err != nil {
		return nil, fmt.Errorf("getHookStart: %w", err)
	}
	var others []*document.Document
	if params.OldDoc != "" && params.OldDoc != params.URI && !params.DontCheckOldDoc {
		old, err := ws.Document(params.OldDoc)
		switch {
		case err == nil:
			others = append(others, old)
		case errors.Is(err, document.ErrNotFound):
			log.Debug("old document not found", "uri", params.OldDoc)
		default:
			return nil, fmt.Errorf("getHookStart: %w", err)
		}
	}

	ip := analysis.FindInsertPoint(doc, params.Number, params.Name, others...)
	if ip.Exists {
		existing := ip.Script
		return &HookStart{
			PosScript: document.Position{Line: -1},
			PosToc:    ip.TOC,
			Existing:  &existing,
		}, nil
	}
	return &HookStart{PosScript: ip.Script, PosToc: ip.TOC}, nil
}

func (s *Server) collectStatistics(_ *glsp.Context, params *docPosParams) (*rdparser.Stats, error) {
	doc := s.docs.Get(params.Doc)
	if doc == nil {
		return nil, nil
	}
	sc := scriptAt(doc, params.Pos)
	if sc == nil {
		return nil, nil
	}
	res, err := s.cache.parse(s.baseCtx, s.openWorkspace(), doc, sc)
	if err != nil {
		return nil, err
	}
	return &res.Stats, nil
}
