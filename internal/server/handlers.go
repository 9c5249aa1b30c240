package server

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/gesture"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/serialization"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/validation"
)

// maxImportBytes caps uploaded pipeline files
const maxImportBytes = 8 << 20

type configRequest struct {
	Config map[string]interface{} `json:"config" validate:"required"`
}

type optimizeRequest struct {
	Goals string `json:"goals" validate:"required"`
}

// sessionResponse is the full state of one session
type sessionResponse struct {
	ID           string         `json:"id"`
	View         editor.View    `json:"view"`
	SelectedNode *graph.Node    `json:"selectedNode,omitempty"`
	Pipeline     graph.Document `json:"pipeline"`
}

// outcomeResponse reports how an event resolved, with the view after it
type outcomeResponse struct {
	Gesture      gesture.State      `json:"gesture"`
	Resolution   gesture.Resolution `json:"resolution"`
	NodeID       string             `json:"nodeId,omitempty"`
	ConnectionID string             `json:"connectionId,omitempty"`
	Reason       string             `json:"reason,omitempty"`
	View         editor.View        `json:"view"`
}

type importResponse struct {
	View         editor.View         `json:"view"`
	Notification editor.Notification `json:"notification"`
}

type executeResponse struct {
	dto.ExecuteResponse
	Error string `json:"error,omitempty"`
}

type optimizeResponse struct {
	dto.OptimizeResponse
	Error string `json:"error,omitempty"`
}

func snapshotOf(sess *editor.Session) sessionResponse {
	out := sessionResponse{ID: sess.ID(), View: sess.View(), Pipeline: sess.Snapshot()}
	if n, ok := sess.SelectedNode(); ok {
		out.SelectedNode = &n
	}
	return out
}

func outcomeOf(sess *editor.Session, o gesture.Outcome) outcomeResponse {
	out := outcomeResponse{
		Gesture:      o.Gesture,
		Resolution:   o.Resolution,
		NodeID:       o.NodeID,
		ConnectionID: o.ConnectionID,
		View:         sess.View(),
	}
	if o.Err != nil {
		out.Reason = o.Err.Error()
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// handleCatalog lists the component sidebar, optionally filtered by ?q=
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	groups := catalog.Grouped(s.catalog.Search(r.URL.Query().Get("q")))
	if groups == nil {
		groups = []catalog.Group{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := editor.NewSession(s.catalog,
		editor.WithLogger(s.logger),
		editor.WithExecutor(s.executor),
		editor.WithOptimizer(s.optimizer))
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeErr(w, err)
		return
	}
	s.logger.Info("session opened", zap.String("session", sess.ID()))
	writeJSON(w, http.StatusCreated, snapshotOf(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": ids})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	var out sessionResponse
	err := s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		out = snapshotOf(sess)
		return nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	s.logger.Info("session closed", zap.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ev := validationPayload[editor.Event](r)

	var out outcomeResponse
	err := s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		o, err := sess.Dispatch(*ev)
		if err != nil {
			return err
		}
		out = outcomeOf(sess, o)
		return nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	req := validationPayload[configRequest](r)

	var out sessionResponse
	err := s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		if err := sess.UpdateNodeConfig(r.PathValue("nodeId"), req.Config); err != nil {
			return err
		}
		out = snapshotOf(sess)
		return nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *editor.Session) error {
		return sess.DeleteNode(r.PathValue("nodeId"))
	})
}

func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *editor.Session) error {
		return sess.DeleteConnection(r.PathValue("connId"))
	})
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*editor.Session) error) {
	var out sessionResponse
	err := s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		out = snapshotOf(sess)
		return nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleExport downloads the pipeline; ?format= picks the codec
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ser, err := serializerFor(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	var buf bytes.Buffer
	err = s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		return sess.Export(&buf, ser)
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	contentType := "application/octet-stream"
	if ser.Name() == "json" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="pipeline`+ser.Extension()+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleImport replaces the pipeline with the request body
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ser, err := serializerFor(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	var out importResponse
	err = s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		if err := sess.Import(body, ser); err != nil {
			return err
		}
		out = importResponse{View: sess.View(), Notification: editor.ImportSucceeded()}
		return nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	goals := validationPayload[optimizeRequest](r).Goals

	var (
		req dto.OptimizeRequest
		opt editor.Optimizer
	)
	err := s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		var err error
		req, err = sess.OptimizeRequest(goals)
		opt = sess.Optimizer()
		return err
	})
	if err == nil {
		var resp dto.OptimizeResponse
		if resp, err = editor.Optimize(r.Context(), opt, req); err == nil {
			writeJSON(w, http.StatusOK, optimizeResponse{OptimizeResponse: resp})
			return
		}
	}

	s.logger.Warn("optimize failed", zap.String("session", r.PathValue("id")), zap.Error(err))
	writeJSON(w, statusFor(err), optimizeResponse{OptimizeResponse: editor.OptimizeFailure(err), Error: err.Error()})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var (
		req dto.ExecuteRequest
		ex  editor.Executor
	)
	err := s.sessions.Do(r.Context(), r.PathValue("id"), func(sess *editor.Session) error {
		req = sess.ExecuteRequest()
		ex = sess.Executor()
		return nil
	})
	if err == nil {
		var resp dto.ExecuteResponse
		if resp, err = editor.Execute(r.Context(), ex, req); err == nil {
			writeJSON(w, http.StatusOK, executeResponse{ExecuteResponse: resp})
			return
		}
	}

	s.logger.Warn("execute failed", zap.String("session", r.PathValue("id")), zap.Error(err))
	writeJSON(w, statusFor(err), executeResponse{ExecuteResponse: editor.ExecuteFailure(err), Error: err.Error()})
}

func serializerFor(r *http.Request) (*serialization.Serializer, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		return serialization.DefaultSerializer(), nil
	}
	return serialization.ParseFormat(format)
}

// validationPayload returns the body decoded by the validation middleware
func validationPayload[T any](r *http.Request) *T {
	v, _ := validation.Payload(r).(*T)
	if v == nil {
		return new(T)
	}
	return v
}
