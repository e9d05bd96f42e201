// Package lsp serves compiler diagnostics for open documents over the
// Language Server Protocol.
package lsp

import (
	"sync"

	"github.com/dhamidi/docscript/compile"
	"github.com/dhamidi/docscript/diag"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "docscript"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    []compile.Option
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

// NewServer returns a language server that compiles every open document with
// opts and publishes the result as diagnostics.
func NewServer(version string, opts ...compile.Option) *Server {
	s := &Server{
		version: version,
		opts:    opts,
		log:     commonlog.GetLogger("docscript.lsp"),
		docs:    map[protocol.DocumentUri]string{},
	}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.store(uri, params.TextDocument.Text)
	s.publish(ctx, uri, s.Check(uri, params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change carries the whole text.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		s.log.Warningf("ignoring incremental change for %s", uri)
		return nil
	}
	s.store(uri, whole.Text)
	s.publish(ctx, uri, s.Check(uri, whole.Text))
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
	s.publish(ctx, uri, []protocol.Diagnostic{})
	return nil
}

func (s *Server) store(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
}

// Text returns the last known contents of an open document.
func (s *Server) Text(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

// Check compiles text and converts the diagnostics it produced.
func (s *Server) Check(uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	res := compile.Bytes(string(uri), []byte(text), s.opts...)
	s.log.Debugf("%s: %d symbols, %d instructions, %d diagnostics",
		uri, len(res.Symbols), res.Program.Len(), len(res.Diagnostics))
	return Diagnostics(res.Diagnostics)
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts compiler diagnostics to protocol diagnostics. The
// compiler only knows lines, so every range is the start of its line.
func Diagnostics(list []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(list))
	for _, d := range list {
		line := protocol.UInteger(0)
		if d.Line > 0 {
			line = protocol.UInteger(d.Line - 1)
		}
		pos := protocol.Position{Line: line, Character: 0}
		source := lsName
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: pos, End: pos},
			Severity: severity(d.Severity),
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func severity(s diag.Severity) *protocol.DiagnosticSeverity {
	sev := protocol.DiagnosticSeverityWarning
	if s == diag.Error {
		sev = protocol.DiagnosticSeverityError
	}
	return &sev
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
