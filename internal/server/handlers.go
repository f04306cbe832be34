package server

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphloom/pkg/build"
	"github.com/matzehuels/graphloom/pkg/buildinfo"
	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/httputil"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/pipeline"
	"github.com/matzehuels/graphloom/pkg/render"
	"github.com/matzehuels/graphloom/pkg/storage"
	"github.com/matzehuels/graphloom/pkg/workspace"
)

// =============================================================================
// Response Types
// =============================================================================

// GraphResponse describes one workspace.
type GraphResponse struct {
	ID      string       `json:"id"`
	Graph   *graph.Plain `json:"graph,omitempty"`
	Nodes   int          `json:"nodes"`
	Edges   int          `json:"edges"`
	History int          `json:"history"`
}

// NodesResponse is the body of node searches.
type NodesResponse struct {
	Nodes []graph.PlainNode `json:"nodes"`
}

// EdgesResponse is the body of edge searches.
type EdgesResponse struct {
	Edges []graph.PlainEdge `json:"edges"`
}

// FormatsResponse lists what the server accepts and produces.
type FormatsResponse struct {
	Normalizers []string `json:"normalizers"`
	Renderers   []string `json:"renderers"`
	Styles      []string `json:"styles"`
	Operators   []string `json:"operators"`
}

// =============================================================================
// Handlers
// =============================================================================

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
	Graphs int            `json:"graphs"` // workspaces held in memory
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Build:  buildinfo.Current(),
		Graphs: s.spaces.Len(),
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FormatsResponse{
		Normalizers: s.runner.Sources.Names(),
		Renderers:   s.runner.Renderers.Names(),
		Styles:      layout.Styles,
		Operators:   workspace.Operators,
	})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	out := []GraphResponse{}
	for _, id := range s.spaces.IDs() {
		ws, err := s.spaces.Get(id)
		if err != nil {
			continue
		}
		out = append(out, summarize(id, ws, false))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"graphs": out})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.ingest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, ws := s.spaces.Create(g)
	if err := s.persist(r.Context(), id, g); err != nil {
		s.spaces.Delete(id)
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/graphs/"+id)
	httputil.WriteJSON(w, http.StatusCreated, summarize(id, ws, true))
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summarize(id, ws, true))
}

func (s *Server) handleReplaceGraph(w http.ResponseWriter, r *http.Request) {
	id, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.ingest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.persist(r.Context(), id, g); err != nil {
		s.fail(w, r, err)
		return
	}
	ws.Set(g)
	httputil.WriteJSON(w, http.StatusOK, summarize(id, ws, true))
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := gerrors.ValidateGraphID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	found := s.spaces.Delete(id)
	if s.store != nil {
		if _, err := s.store.Load(r.Context(), id); err == nil {
			found = true
		}
		if err := s.store.Delete(r.Context(), id); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if !found {
		s.fail(w, r, notFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// Persist before mutating so a failed save changes nothing.
	g, ok := ws.Previous()
	if !ok {
		s.fail(w, r, gerrors.New(gerrors.ErrCodeInvalidInput, "graph %q has no history to undo", id))
		return
	}
	if err := s.persist(r.Context(), id, g); err != nil {
		s.fail(w, r, err)
		return
	}
	ws.Undo()
	httputil.WriteJSON(w, http.StatusOK, summarize(id, ws, true))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	_, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.layoutOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), ws.Current(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	_, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.layoutOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	opts.Formats = []string{format}

	g := ws.Current()
	l, err := s.runner.Layout(r.Context(), g, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), g, l, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	_, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()

	nodes := ws.Nodes()
	if label := q.Get("label"); label != "" {
		nodes = ws.FindNodesByLabel(label)
	}
	if attr := q.Get("attr"); attr != "" {
		op := q.Get("op")
		if op == "" {
			op = workspace.OpEq
		}
		matched, err := ws.FindNodesByAttribute(attr, op, q.Get("value"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		nodes = intersectNodes(nodes, matched)
	}

	out := NodesResponse{Nodes: make([]graph.PlainNode, 0, len(nodes))}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, graph.PlainNode{ID: n.ID, Label: n.Label, Attributes: n.Attributes})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	_, ws, err := s.workspace(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	minW, err := httputil.QueryFloat(r, "min")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	maxW, err := httputil.QueryFloat(r, "max")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	edges := ws.FindEdgesByWeight(minW, maxW)
	if attr := r.URL.Query().Get("attr"); attr != "" {
		edges = intersectEdges(edges, ws.FindEdgesByAttribute(attr, r.URL.Query().Get("value")))
	}

	out := EdgesResponse{Edges: make([]graph.PlainEdge, 0, len(edges))}
	for _, e := range edges {
		out.Edges = append(out.Edges, graph.PlainEdge{
			ID:         e.ID,
			Source:     e.Source,
			Target:     e.Target,
			Weight:     e.Weight,
			Directed:   e.Directed,
			Attributes: e.Attributes,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// =============================================================================
// Helpers
// =============================================================================

// ingest reads the request body and runs it through the ingest stage.
func (s *Server) ingest(w http.ResponseWriter, r *http.Request) (*graph.Graph, error) {
	opts := s.defaults
	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		opts.Format = f
	}
	if d := q.Get("delimiter"); d != "" {
		opts.Delimiter = d
	}
	directed, ok, err := httputil.QueryBool(r, "directed")
	if err != nil {
		return nil, err
	}
	if ok {
		opts.Directed = &directed
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "payload exceeds %d bytes", s.maxBody)
		}
		return nil, gerrors.Wrap(gerrors.ErrCodeMalformedInput, err, "cannot read request body")
	}

	src := pipeline.Source{Name: sourceName(r), Data: data}
	return s.runner.Ingest(r.Context(), src, opts)
}

// sourceName picks a file name whose extension tells the pipeline how to
// decode the body: the filename parameter, else the Content-Type.
func sourceName(r *http.Request) string {
	if name := r.URL.Query().Get("filename"); name != "" {
		return name
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch mt {
	case "text/csv":
		return "payload.csv"
	case "text/tab-separated-values":
		return "payload.tsv"
	case "application/json":
		return "payload.json"
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "payload.yaml"
	}
	return ""
}

func (s *Server) layoutOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()
	if style := q.Get("style"); style != "" {
		opts.Style = style
	}
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height} {
		v, err := httputil.QueryFloat(r, name)
		if err != nil {
			return opts, err
		}
		if v != nil {
			*dst = *v
		}
	}
	return opts, nil
}

// workspace resolves the {id} route parameter. Graphs that are only in the
// persistent store are loaded into a fresh workspace.
func (s *Server) workspace(r *http.Request) (string, *workspace.Workspace, error) {
	id := chi.URLParam(r, "id")
	if err := gerrors.ValidateGraphID(id); err != nil {
		return id, nil, err
	}
	if ws, err := s.spaces.Get(id); err == nil {
		return id, ws, nil
	}
	if s.store == nil {
		return id, nil, notFound(id)
	}

	p, err := s.store.Load(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return id, nil, notFound(id)
	}
	if err != nil {
		return id, nil, err
	}
	g, err := build.Rebuild(p, build.WithLogger(s.logger))
	if err != nil {
		return id, nil, err
	}
	ws := workspace.New()
	ws.Set(g)
	s.spaces.Put(id, ws)
	return id, ws, nil
}

func (s *Server) persist(ctx context.Context, id string, g *graph.Graph) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, id, g.ToPlain())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		return
	}
	s.logger.Debug("request rejected", "status", status, "err", err)
}

func notFound(id string) error {
	return gerrors.New(gerrors.ErrCodeNotFound, "graph %q not found", id)
}

func summarize(id string, ws *workspace.Workspace, withGraph bool) GraphResponse {
	resp := GraphResponse{ID: id, History: ws.HistorySize()}
	g := ws.Current()
	if g == nil {
		return resp
	}
	resp.Nodes = g.NodeCount()
	resp.Edges = g.EdgeCount()
	if withGraph {
		p := g.ToPlain()
		resp.Graph = &p
	}
	return resp
}

func intersectNodes(a, b []*graph.Node) []*graph.Node {
	keep := make(map[string]bool, len(b))
	for _, n := range b {
		keep[n.ID] = true
	}
	var out []*graph.Node
	for _, n := range a {
		if keep[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

func intersectEdges(a, b []*graph.Edge) []*graph.Edge {
	keep := make(map[string]bool, len(b))
	for _, e := range b {
		keep[e.ID] = true
	}
	var out []*graph.Edge
	for _, e := range a {
		if keep[e.ID] {
			out = append(out, e)
		}
	}
	return out
}
