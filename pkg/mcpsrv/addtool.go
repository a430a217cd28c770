package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/internal/mcp/tools"
)

// AddTool is [sdkmcp.AddTool] preceded by a check of Out: its zero value,
// encoded as JSON, must satisfy the output schema the SDK derives from Out.
// A nil slice field without omitzero fails that check, and so does any
// json.RawMessage field; AddTool panics naming the offending field.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
