package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/gesture"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

type fakeExecutor struct {
	got dto.ExecuteRequest
}

func (f *fakeExecutor) Execute(_ context.Context, req dto.ExecuteRequest) (dto.ExecuteResponse, error) {
	f.got = req
	return dto.ExecuteResponse{ExecutionPlan: "1. Read the database"}, nil
}

type failingOptimizer struct{}

func (failingOptimizer) Optimize(context.Context, dto.OptimizeRequest) (dto.OptimizeResponse, error) {
	return dto.OptimizeResponse{}, &dto.RemoteError{Op: "optimize", StatusCode: 429, Body: "slow down"}
}

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T, opts ...Option) *client {
	t.Helper()
	srv := httptest.NewServer(New(catalog.Default(), opts...).Handler())
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

func (c *client) do(method, path string, body io.Reader, out interface{}) int {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, body)
	require.NoError(c.t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) doJSON(method, path string, in, out interface{}) int {
	c.t.Helper()
	data, err := json.Marshal(in)
	require.NoError(c.t, err)
	return c.do(method, path, bytes.NewReader(data), out)
}

func (c *client) newSession() string {
	c.t.Helper()
	var out sessionResponse
	require.Equal(c.t, http.StatusCreated, c.do(http.MethodPost, "/api/sessions", nil, &out))
	require.NotEmpty(c.t, out.ID)
	return out.ID
}

func (c *client) event(id string, ev editor.Event) outcomeResponse {
	c.t.Helper()
	var out outcomeResponse
	require.Equal(c.t, http.StatusOK, c.doJSON(http.MethodPost, "/api/sessions/"+id+"/events", ev, &out))
	return out
}

// place drops a component and returns the new node id
func (c *client) place(id, component string, x, y float64) string {
	c.t.Helper()
	c.event(id, editor.Event{Type: editor.EventPlacementBegin, Component: component})
	out := c.event(id, editor.Event{Type: editor.EventDropCanvas, Pointer: graph.Position{X: x, Y: y}})
	require.Equal(c.t, gesture.ResolutionApplied, out.Resolution, out.Reason)
	return out.NodeID
}

// connect draws a connection from src's output to dst's input
func (c *client) connect(id, src, dst string) outcomeResponse {
	c.t.Helper()
	c.event(id, editor.Event{Type: editor.EventConnectionBegin, NodeID: src, HandleID: "out", Role: catalog.RoleOutput})
	return c.event(id, editor.Event{Type: editor.EventDropHandle, NodeID: dst, HandleID: "in", Role: catalog.RoleInput})
}

func TestServer_Health(t *testing.T) {
	c := newClient(t)
	var out map[string]interface{}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestServer_Metrics(t *testing.T) {
	c := newClient(t)
	c.newSession()

	resp, err := http.Get(c.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pipelinepilot_active_sessions")
}

func TestServer_Catalog(t *testing.T) {
	c := newClient(t)

	var all struct {
		Groups []catalog.Group `json:"groups"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/catalog", nil, &all))
	assert.NotEmpty(t, all.Groups)

	var found struct {
		Groups []catalog.Group `json:"groups"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/catalog?q=inversion", nil, &found))
	require.Len(t, found.Groups, 1)
	assert.Equal(t, catalog.CategoryGeoscience, found.Groups[0].Category)

	var none struct {
		Groups []catalog.Group `json:"groups"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/catalog?q=zzz", nil, &none))
	assert.Empty(t, none.Groups)
}

func TestServer_DatabaseToFilter(t *testing.T) {
	c := newClient(t)
	id := c.newSession()

	db := c.place(id, "Database", 100, 100)
	filter := c.place(id, "Filter", 400, 100)

	out := c.connect(id, db, filter)
	assert.Equal(t, gesture.ResolutionApplied, out.Resolution)
	require.Len(t, out.View.Connections, 1)
	assert.True(t, strings.HasPrefix(out.View.Connections[0].Path, "M "))
	assert.Equal(t, gesture.StateIdle, out.Gesture)

	// a second connection into the same input is dropped
	other := c.place(id, "API Source", 100, 300)
	out = c.connect(id, other, filter)
	assert.Equal(t, gesture.ResolutionRejected, out.Resolution)
	assert.Len(t, out.View.Connections, 1)

	var sess sessionResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/sessions/"+id, nil, &sess))
	assert.Len(t, sess.Pipeline.Nodes, 3)
	assert.Len(t, sess.Pipeline.Connections, 1)
}

func TestServer_Events_Invalid(t *testing.T) {
	c := newClient(t)
	id := c.newSession()

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/sessions/"+id+"/events", strings.NewReader("{"), nil))
	assert.Equal(t, http.StatusBadRequest, c.doJSON(http.MethodPost, "/api/sessions/"+id+"/events", map[string]string{}, nil))
	assert.Equal(t, http.StatusBadRequest, c.doJSON(http.MethodPost, "/api/sessions/"+id+"/events",
		editor.Event{Type: "wiggle"}, nil))
	assert.Equal(t, http.StatusNotFound, c.doJSON(http.MethodPost, "/api/sessions/"+id+"/events",
		editor.Event{Type: editor.EventClickNode, NodeID: "ghost"}, nil))
	assert.Equal(t, http.StatusNotFound, c.doJSON(http.MethodPost, "/api/sessions/missing/events",
		editor.Event{Type: editor.EventCancel}, nil))
}

func TestServer_ConfigSidebar(t *testing.T) {
	c := newClient(t)
	id := c.newSession()
	db := c.place(id, "Database", 0, 0)
	filter := c.place(id, "Filter", 300, 0)
	c.connect(id, db, filter)
	c.event(id, editor.Event{Type: editor.EventClickNode, NodeID: filter})

	var out sessionResponse
	status := c.doJSON(http.MethodPut, "/api/sessions/"+id+"/nodes/"+filter+"/config",
		configRequest{Config: map[string]interface{}{"name": "Only EU", "condition": "region = 'EU'"}}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, out.SelectedNode)
	assert.Equal(t, "Only EU", out.SelectedNode.Name())

	assert.Equal(t, http.StatusBadRequest, c.doJSON(http.MethodPut, "/api/sessions/"+id+"/nodes/"+filter+"/config",
		configRequest{Config: map[string]interface{}{"condition": "x"}}, nil))
	assert.Equal(t, http.StatusNotFound, c.doJSON(http.MethodPut, "/api/sessions/"+id+"/nodes/ghost/config",
		configRequest{Config: map[string]interface{}{"name": "x"}}, nil))

	out = sessionResponse{}
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/sessions/"+id+"/nodes/"+filter, nil, &out))
	assert.Len(t, out.Pipeline.Nodes, 1)
	assert.Empty(t, out.Pipeline.Connections)
	assert.Nil(t, out.SelectedNode)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/sessions/"+id+"/connections/ghost", nil, nil))
}

func TestServer_ExportImport(t *testing.T) {
	c := newClient(t)
	id := c.newSession()
	db := c.place(id, "Database", 0, 0)
	filter := c.place(id, "Filter", 300, 0)
	c.connect(id, db, filter)

	for _, format := range []string{"json", "msgpack+zstd", "json+gzip"} {
		t.Run(format, func(t *testing.T) {
			resp, err := http.Get(c.srv.URL + "/api/sessions/" + id + "/export?format=" + format)
			require.NoError(t, err)
			data, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "pipeline")

			target := c.newSession()
			var out importResponse
			status := c.do(http.MethodPost, "/api/sessions/"+target+"/import?format="+format, bytes.NewReader(data), &out)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, editor.ImportSucceeded(), out.Notification)
			assert.Len(t, out.View.Nodes, 2)
			assert.Len(t, out.View.Connections, 1)
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/sessions/"+id+"/export?format=xml", nil, nil))
	})

	t.Run("rejected file", func(t *testing.T) {
		var out errorBody
		status := c.do(http.MethodPost, "/api/sessions/"+id+"/import", strings.NewReader(`{"nodes": []}`), &out)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, out.Notification)
		assert.Equal(t, editor.ImportFailed(), *out.Notification)

		var sess sessionResponse
		c.do(http.MethodGet, "/api/sessions/"+id, nil, &sess)
		assert.Len(t, sess.Pipeline.Nodes, 2)
	})
}

func TestServer_Execute(t *testing.T) {
	t.Run("no backend", func(t *testing.T) {
		c := newClient(t)
		id := c.newSession()

		var out executeResponse
		assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/api/sessions/"+id+"/execute", nil, &out))
		assert.Contains(t, out.ExecutionPlan, "PIPELINE_BACKEND_URL")
	})

	t.Run("backend", func(t *testing.T) {
		ex := &fakeExecutor{}
		c := newClient(t, WithExecutor(ex))
		id := c.newSession()
		c.place(id, "Database", 0, 0)

		var out executeResponse
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/sessions/"+id+"/execute", nil, &out))
		assert.Equal(t, "1. Read the database", out.ExecutionPlan)
		assert.Empty(t, out.Error)
		assert.Len(t, ex.got.Pipeline.Nodes, 1)
	})
}

func TestServer_Optimize(t *testing.T) {
	t.Run("no optimizer", func(t *testing.T) {
		c := newClient(t)
		id := c.newSession()
		assert.Equal(t, http.StatusServiceUnavailable,
			c.doJSON(http.MethodPost, "/api/sessions/"+id+"/optimize", optimizeRequest{Goals: "speed"}, nil))
	})

	t.Run("missing goals", func(t *testing.T) {
		c := newClient(t)
		id := c.newSession()
		assert.Equal(t, http.StatusBadRequest,
			c.doJSON(http.MethodPost, "/api/sessions/"+id+"/optimize", optimizeRequest{}, nil))
	})

	t.Run("remote failure", func(t *testing.T) {
		c := newClient(t, WithOptimizer(failingOptimizer{}))
		id := c.newSession()

		var out optimizeResponse
		status := c.doJSON(http.MethodPost, "/api/sessions/"+id+"/optimize", optimizeRequest{Goals: "speed"}, &out)
		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, "An error occurred while generating suggestions.", out.Suggestions)
		assert.Contains(t, out.Rationale, "429")
	})
}

func TestServer_DeleteSession(t *testing.T) {
	c := newClient(t)
	id := c.newSession()

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/sessions/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/sessions/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/sessions/"+id, nil, nil))
}

func TestServer_GestureStream(t *testing.T) {
	c := newClient(t)
	id := c.newSession()

	url := "ws" + strings.TrimPrefix(c.srv.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	send := func(ev interface{}) map[string]interface{} {
		t.Helper()
		require.NoError(t, conn.WriteJSON(ev))
		var reply map[string]interface{}
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	reply := send(editor.Event{Type: editor.EventPlacementBegin, Component: "Database"})
	assert.Equal(t, string(gesture.StatePlacingNewNode), reply["gesture"])

	reply = send(editor.Event{Type: editor.EventDropCanvas, Pointer: graph.Position{X: 50, Y: 60}})
	assert.Equal(t, string(gesture.ResolutionApplied), reply["resolution"])
	assert.NotEmpty(t, reply["nodeId"])

	reply = send(map[string]string{"type": "wiggle"})
	assert.Contains(t, reply["error"], "unknown")

	reply = send(map[string]string{})
	assert.Contains(t, reply, "error")

	var sess sessionResponse
	c.do(http.MethodGet, "/api/sessions/"+id, nil, &sess)
	assert.Len(t, sess.Pipeline.Nodes, 1)
}

func TestServer_GestureStream_UnknownSession(t *testing.T) {
	c := newClient(t)
	url := "ws" + strings.TrimPrefix(c.srv.URL, "http") + "/api/sessions/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
