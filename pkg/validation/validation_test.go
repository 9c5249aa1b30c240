package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

type handleRequest struct {
	NodeID string `json:"nodeId" validate:"required,node_id"`
	Role   string `json:"role" validate:"required,handle_role"`
	Goals  string `json:"goals" validate:"omitempty,max=10"`
}

func TestValidateWithPlayground(t *testing.T) {
	tests := []struct {
		name       string
		input      handleRequest
		wantFields []string
	}{
		{
			name:  "valid",
			input: handleRequest{NodeID: "node-8c1b", Role: "output"},
		},
		{
			name:       "missing id",
			input:      handleRequest{Role: "input"},
			wantFields: []string{"nodeId"},
		},
		{
			name:       "whitespace in id and bad role",
			input:      handleRequest{NodeID: "node 1", Role: "sideways"},
			wantFields: []string{"nodeId", "role"},
		},
		{
			name:       "too long",
			input:      handleRequest{NodeID: "n", Role: "input", Goals: "much too long for this"},
			wantFields: []string{"goals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithPlayground(tt.input)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidateWithPlayground_NonStruct(t *testing.T) {
	err := ValidateWithPlayground("not a struct")
	require.Error(t, err)
	_, ok := err.(ValidationErrors)
	assert.False(t, ok)
}

func TestValidateWithConfig_MaxErrors(t *testing.T) {
	doc := graph.Document{Nodes: make([]graph.Node, 5)}
	err := ValidateWithConfig(&doc, &ValidationConfig{MaxErrors: 3})
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
	assert.Equal(t, "nodes[0].id", errs[0].Field)
}

func TestMarshalValidationErrors(t *testing.T) {
	errs := ValidationErrors{{Field: "nodes", Message: "field is required"}}
	data, err := MarshalValidationErrors(errs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[{"field":"nodes","value":null,"message":"field is required"}],"count":1}`, string(data))

	back, err := UnmarshalValidationErrors(data)
	require.NoError(t, err)
	assert.Equal(t, errs, back)

	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}

func pipeline() *graph.Document {
	return &graph.Document{
		Nodes: []graph.Node{
			{ID: "node-a", Type: "Filter", Config: map[string]interface{}{"name": "A"}},
			{ID: "node-b", Type: "Distinct", Config: map[string]interface{}{"name": "B"}},
		},
		Connections: []graph.Connection{
			{ID: "conn-1", SourceID: "node-a", SourceHandle: "out", TargetID: "node-b", TargetHandle: "in"},
		},
	}
}

func TestValidatePipeline(t *testing.T) {
	cat := catalog.Default()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidatePipeline(pipeline(), cat, PipelineValidationOptions{CheckCycles: true}))
	})

	t.Run("struct tags", func(t *testing.T) {
		doc := pipeline()
		doc.Nodes[0].Config = nil
		var errs ValidationErrors
		require.ErrorAs(t, ValidatePipeline(doc, cat), &errs)
		assert.Equal(t, "nodes[0].config", errs[0].Field)
	})

	t.Run("model invariants", func(t *testing.T) {
		doc := pipeline()
		doc.Connections[0].TargetHandle = "in2"
		assert.ErrorIs(t, ValidatePipeline(doc, cat), graph.ErrInvalidHandle)
	})

	t.Run("cycles only when asked", func(t *testing.T) {
		doc := pipeline()
		doc.Connections = append(doc.Connections, graph.Connection{
			ID: "conn-2", SourceID: "node-b", SourceHandle: "out", TargetID: "node-a", TargetHandle: "in",
		})
		assert.NoError(t, ValidatePipeline(doc, cat))
		assert.ErrorIs(t, ValidatePipeline(doc, cat, PipelineValidationOptions{CheckCycles: true}), ErrCyclicPipeline)
	})
}

func TestMiddleware_ValidateJSON(t *testing.T) {
	var got *handleRequest
	handler := NewMiddleware(nil).ValidateJSON(handleRequest{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Payload(r).(*handleRequest)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"nodeId":"node-1","role":"input"}`, http.StatusNoContent},
		{"invalid json", `{"nodeId":`, http.StatusBadRequest},
		{"failed validation", `{"nodeId":"node-1","role":"both"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				require.NotNil(t, got)
				assert.Equal(t, "node-1", got.NodeID)
				return
			}
			assert.Nil(t, got)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			errs, err := UnmarshalValidationErrors(rec.Body.Bytes())
			require.NoError(t, err)
			assert.NotEmpty(t, errs)
		})
	}
}
