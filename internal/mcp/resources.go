package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/mcp/tools"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// Resource URI scheme: schemacheck://
// Supported URIs:
//   schemacheck://metaschema/{draft}
//   schemacheck://dialect/{draft}

var (
	metaSchemaTemplate = uritemplate.MustNew("schemacheck://metaschema/{draft}")
	dialectTemplate    = uritemplate.MustNew("schemacheck://dialect/{draft}")
)

// Dialect describes what a draft understands.
type Dialect struct {
	Draft        string   `json:"draft"`
	MetaSchemaID string   `json:"meta_schema_id"`
	Keywords     []string `json:"keywords"`
	Formats      []string `json:"formats"`
}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: metaSchemaTemplate.Raw(),
		Name:        "Meta-Schema",
		Description: "The meta-schema of a draft (draft3, draft4, draft6 or draft7). Schemas of that draft are validated against it. Large; check_schema already reports meta-schema violations.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceMetaSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: dialectTemplate.Raw(),
		Name:        "Draft Dialect",
		Description: "Keywords and formats a draft supports. Small; read it before writing a schema for an older draft.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceDialect)
}

// Resource handlers

func (s *Server) handleResourceMetaSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	class, err := s.classFromURI(metaSchemaTemplate, req.Params.URI)
	if err != nil {
		return nil, err
	}
	return toResourceResult(req.Params.URI, class.MetaSchema())
}

func (s *Server) handleResourceDialect(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	class, err := s.classFromURI(dialectTemplate, req.Params.URI)
	if err != nil {
		return nil, err
	}

	dialect := Dialect{
		Draft:        class.Version(),
		MetaSchemaID: class.ID(),
		Keywords:     make([]string, 0),
		Formats:      checker.FormatCheckerFor(class).Formats(),
	}
	for _, k := range class.Keywords() {
		dialect.Keywords = append(dialect.Keywords, string(k))
	}
	return toResourceResult(req.Params.URI, dialect)
}

func (s *Server) classFromURI(tmpl *uritemplate.Template, uri string) (*jsonschema.Class, error) {
	values := tmpl.Match(uri)
	if values == nil {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("resource URI %q does not match %s", uri, tmpl.Raw()))
	}
	class, err := s.deps.Checker.Version(values.Get("draft").String())
	if err != nil {
		return nil, tools.WrapCheckError(err)
	}
	return class, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
