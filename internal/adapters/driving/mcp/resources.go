package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for scrutiny resources.
	uriScheme = "scrutiny://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Summary of the currently loaded corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "corpus/{source}/documents",
		Name:        "corpus-documents",
		Description: "Chunks indexed from the syllabus or the textbooks",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// handleCorpusResource returns a summary of the current corpus, or null
// before anything has been loaded.
func (s *Server) handleCorpusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := "null"
	if corpus := s.ports.Session.Current(); corpus != nil {
		data, err := json.MarshalIndent(summarise(corpus), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling corpus: %w", err)
		}
		text = string(data)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// handleDocumentsResource lists the chunks held by one store of the current corpus.
func (s *Server) handleDocumentsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	corpus := s.ports.Session.Current()
	if corpus == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var store driving.RetrievalStore
	switch extractSource(req.Params.URI) {
	case domain.SourceTypeSyllabus:
		store = corpus.Syllabus
	case domain.SourceTypeTextbook:
		store = corpus.Textbook
	}
	if store == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type docInfo struct {
		ChunkID string            `json:"chunk_id"`
		Content string            `json:"content"`
		Meta    map[string]string `json:"metadata"`
	}

	docs := store.Documents()
	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ChunkID: docs[i].ChunkID(),
			Content: docs[i].Content(),
			Meta:    docs[i].Metadata(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSource extracts the source from a URI like scrutiny://corpus/{source}/documents.
func extractSource(uri string) domain.SourceType {
	const prefix = uriScheme + "corpus/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return domain.SourceType(strings.TrimSuffix(uri, suffix))
}
