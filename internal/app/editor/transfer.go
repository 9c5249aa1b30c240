package editor

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/metrics"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/serialization"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/validation"
)

// importDocument tells a missing key apart from an empty list
type importDocument struct {
	Nodes       *[]graph.Node       `json:"nodes"`
	Connections *[]graph.Connection `json:"connections"`
}

// Export writes the pipeline to w in the serializer's format
func (s *Session) Export(w io.Writer, ser *serialization.Serializer) error {
	if ser == nil {
		ser = serialization.DefaultSerializer()
	}
	err := ser.Write(w, s.model.Snapshot())
	metrics.Transfer("export", ser.Name(), err)
	if err != nil {
		return fmt.Errorf("export pipeline: %w", err)
	}
	return nil
}

// Import replaces the pipeline with the document read from r. The document
// must carry both a nodes and a connections list and satisfy every graph
// invariant; otherwise the session is left untouched and the error wraps
// dto.ErrImportFormatInvalid.
func (s *Session) Import(r io.Reader, ser *serialization.Serializer) error {
	if ser == nil {
		ser = serialization.DefaultSerializer()
	}
	doc, err := DecodeDocument(r, ser)
	if err == nil {
		err = doc.Check(s.catalog)
		if err != nil {
			err = fmt.Errorf("%w: %v", dto.ErrImportFormatInvalid, err)
		}
	}
	metrics.Transfer("import", ser.Name(), err)
	if err != nil {
		s.logger.Info("import rejected", zap.Error(err))
		return err
	}

	s.model.Replace(doc)
	s.selected = ""
	s.gestures.Cancel()
	metrics.Mutation("import")
	return nil
}

// DecodeDocument reads a pipeline document and checks its shape, but not
// its graph invariants
func DecodeDocument(r io.Reader, ser *serialization.Serializer) (graph.Document, error) {
	var wire importDocument
	if err := ser.Read(r, &wire); err != nil {
		return graph.Document{}, fmt.Errorf("%w: %v", dto.ErrImportFormatInvalid, err)
	}
	if wire.Nodes == nil || wire.Connections == nil {
		return graph.Document{}, fmt.Errorf("%w: nodes and connections are required", dto.ErrImportFormatInvalid)
	}

	doc := graph.Document{Nodes: *wire.Nodes, Connections: *wire.Connections}
	if err := validation.ValidateWithPlayground(&doc); err != nil {
		return graph.Document{}, fmt.Errorf("%w: %v", dto.ErrImportFormatInvalid, err)
	}
	return doc, nil
}
