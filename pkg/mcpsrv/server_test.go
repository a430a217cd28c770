package mcpsrv

import (
	"context"
	"log/slog"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemacheck/internal/checker"
)

type orderInput struct {
	Quantity int `json:"quantity"`
}

type orderOutput struct {
	Valid bool `json:"valid"`
}

func connect(t *testing.T, opts ...Option) *mcp.ClientSession {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	srv, err := NewServer(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestNewServer_BuiltinTools(t *testing.T) {
	cs := connect(t)
	ctx := context.Background()

	list, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"schemacheck_validate", "schemacheck_check_schema", "schemacheck_infer_schema"}, names)

	prompts, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 2)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name: "schemacheck_validate",
		Arguments: map[string]any{
			"schema":    `{"type": "array", "maxItems": 1}`,
			"instances": []string{`[1]`, `[1, 2]`},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	summary := out["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["valid_count"])
	assert.Equal(t, float64(1), summary["invalid_count"])
}

func TestNewServer_ToolErrorsAreResults(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "schemacheck_validate",
		Arguments: map[string]any{"schema": `{}`, "instances": []string{}},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewServer_Resources(t *testing.T) {
	cs := connect(t)
	res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "schemacheck://metaschema/draft4"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "http://json-schema.org/draft-04/schema#")

	res, err = cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "schemacheck://dialect/draft3"})
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"extends"`)
}

func TestNewServer_WithoutBuiltins(t *testing.T) {
	cs := connect(t,
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithDepsTool(&mcp.Tool{Name: "check_order", Description: "Validate an order"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, orderInput) (*mcp.CallToolResult, orderOutput, error) {
				schema := map[string]any{"properties": map[string]any{"quantity": map[string]any{"minimum": 1}}}
				return func(ctx context.Context, _ *mcp.CallToolRequest, in orderInput) (*mcp.CallToolResult, orderOutput, error) {
					run, err := d.Checker.Validate(ctx, schema, []checker.Instance{
						{Label: "order", Value: map[string]any{"quantity": in.Quantity}},
					}, checker.Options{})
					if err != nil {
						return nil, orderOutput{}, err
					}
					return nil, orderOutput{Valid: run.Failed() == 0}, nil
				}
			}),
	)
	ctx := context.Background()

	list, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "check_order", list.Tools[0].Name)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "check_order", Arguments: map[string]any{"quantity": 0}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"valid": false}, res.StructuredContent)
}

func TestNewServer_BadDefaultDraft(t *testing.T) {
	_, err := NewServer(WithLogger(slog.New(slog.DiscardHandler)), WithDefaultDraft("draft5"))
	require.ErrorIs(t, err, checker.ErrUnknownDraft)
}
