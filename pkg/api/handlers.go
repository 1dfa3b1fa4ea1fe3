package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mhaugen/flowforge/pkg/graph"
	"github.com/mhaugen/flowforge/pkg/logging"
	"github.com/mhaugen/flowforge/pkg/store"
	"github.com/mhaugen/flowforge/pkg/validation"
)

// maxBodyBytes caps request bodies; documents are small.
const maxBodyBytes = 4 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", logging.Err(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// mutationStatus maps a store error to an HTTP status.
func mutationStatus(err error) int {
	switch {
	case errors.Is(err, graph.ErrNodeNotFound), errors.Is(err, graph.ErrEdgeNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrRejected), errors.Is(err, graph.ErrDuplicateEdge),
		errors.Is(err, graph.ErrUnknownHandle), errors.Is(err, graph.ErrUnknownKind),
		errors.Is(err, graph.ErrKindMismatch), errors.Is(err, graph.ErrDuplicateName):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Document()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": s.config.Version,
		"uptime":  time.Since(s.startTime).String(),
		"nodes":   len(doc.Nodes),
		"edges":   len(doc.Edges),
	})
}

type addNodeRequest struct {
	Kind     graph.Kind     `json:"kind"`
	Position graph.Position `json:"position"`
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.store.Document().Nodes)
	case http.MethodPost:
		var req addNodeRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		node, err := s.store.AddNode(req.Kind, req.Position)
		if err != nil {
			s.writeError(w, mutationStatus(err), err)
			return
		}
		s.writeJSON(w, http.StatusCreated, node)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

type patchNodeRequest struct {
	Position *graph.Position `json:"position,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/nodes/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("node id required"))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req patchNodeRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Payload != nil {
			node, ok := s.store.Document().NodeByID(id)
			if !ok {
				s.writeError(w, http.StatusNotFound, graph.ErrNodeNotFound)
				return
			}
			payload, err := graph.UnmarshalPayload(node.Kind, req.Payload)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, err)
				return
			}
			if err := s.store.UpdatePayload(id, payload); err != nil {
				s.writeError(w, mutationStatus(err), err)
				return
			}
		}
		if req.Position != nil {
			if err := s.store.MoveNode(id, *req.Position); err != nil {
				s.writeError(w, mutationStatus(err), err)
				return
			}
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case http.MethodDelete:
		if err := s.store.DeleteNode(id); err != nil {
			s.writeError(w, mutationStatus(err), err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

type connectRequest struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

func (req connectRequest) edge() graph.Edge {
	return graph.Edge{
		SourceNodeID: req.Source,
		SourceHandle: req.SourceHandle,
		TargetNodeID: req.Target,
		TargetHandle: req.TargetHandle,
	}
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.store.Document().Edges)
	case http.MethodPost:
		var req connectRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		edge, err := s.store.Connect(req.edge())
		if err != nil {
			s.writeError(w, mutationStatus(err), err)
			return
		}
		s.writeJSON(w, http.StatusCreated, edge)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (s *Server) handleEdge(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/edges/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("edge id required"))
		return
	}
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if err := s.store.DeleteEdge(id); err != nil {
		s.writeError(w, mutationStatus(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.store.Document())
	case http.MethodPost:
		var doc graph.Document
		if err := decodeBody(r, &doc); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.store.Load(&doc); err != nil {
			s.writeError(w, mutationStatus(err), err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
	case http.MethodDelete:
		s.store.Clear()
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	text, err := s.store.Export()
	if err != nil {
		s.writeError(w, mutationStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

type importResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	defer r.Body.Close()
	text, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	warnings, err := s.store.Import(string(text))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	resp := importResponse{Status: "imported"}
	for _, warning := range warnings {
		resp.Warnings = append(resp.Warnings, warning.String())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	var req connectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	doc := s.store.Document()
	s.writeJSON(w, http.StatusOK, validation.ValidateConnection(req.edge(), doc))
}

func (s *Server) handleValidateFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	var node graph.Node
	if err := decodeBody(r, &node); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, validation.ValidateFields(node))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"applied": s.store.Undo()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"applied": s.store.Redo()})
}
