package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/config"
	"github.com/usestring/schemacheck/internal/mcp/tools"
)

func newDeps(t *testing.T) *tools.Deps {
	t.Helper()
	cfg := config.FromEnv(func(string) string { return "" })
	chk, err := checker.New(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return &tools.Deps{Config: cfg, Checker: chk}
}

func session(t *testing.T, s *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	st, ct := sdkmcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	cs, err := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "1"}, nil).Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil, Options{})
	require.Error(t, err)
	_, err = NewServer(&tools.Deps{}, Options{})
	require.Error(t, err)
}

func TestNewServer_Features(t *testing.T) {
	extra := func(srv *sdkmcp.Server) {
		srv.AddPrompt(&sdkmcp.Prompt{Name: "extra"}, func(context.Context, *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
			return &sdkmcp.GetPromptResult{}, nil
		})
	}
	s, err := NewServer(newDeps(t), Options{
		Features: FeaturePrompts,
		Logger:   slog.New(slog.DiscardHandler),
		Extra:    []Registration{extra},
	})
	require.NoError(t, err)
	cs := session(t, s)

	prompts, err := cs.ListPrompts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 3)
	assert.Nil(t, cs.InitializeResult().Capabilities.Tools)
}

func TestResources(t *testing.T) {
	s, err := NewServer(newDeps(t), Options{Features: AllFeatures, Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)
	cs := session(t, s)
	ctx := context.Background()

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "schemacheck://dialect/draft4"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	var d Dialect
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &d))
	assert.Equal(t, "draft4", d.Draft)
	assert.Equal(t, "http://json-schema.org/draft-04/schema#", d.MetaSchemaID)
	assert.Contains(t, d.Keywords, "multipleOf")
	assert.NotContains(t, d.Keywords, "const")
	assert.Contains(t, d.Formats, "ipv4")

	res, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "schemacheck://metaschema/draft7"})
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"http://json-schema.org/draft-07/schema#"`)

	_, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "schemacheck://dialect/draft5"})
	assert.Error(t, err)
}
