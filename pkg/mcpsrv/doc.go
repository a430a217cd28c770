// Package mcpsrv embeds the schemacheck MCP server in other programs.
//
// A server built with no options reads SCHEMACHECK_* and LOG_* variables,
// registers the schemacheck_validate, schemacheck_check_schema and
// schemacheck_infer_schema tools, the metaschema and dialect resources and
// the workflow prompts, and serves them over stdio:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer server.Close()
//	err = server.Run(ctx)
//
// Tools added with WithDepsTool share the server's checker, so they reuse its
// draft registry and the documents it has already fetched:
//
//	mcpsrv.WithDepsTool(
//		&mcp.Tool{Name: "check_order", Description: "Validate an order"},
//		func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, OrderInput) (*mcp.CallToolResult, OrderOutput, error) {
//			return func(ctx context.Context, _ *mcp.CallToolRequest, in OrderInput) (*mcp.CallToolResult, OrderOutput, error) {
//				run, err := d.Checker.Validate(ctx, orderSchema, []checker.Instance{{Label: "order", Value: in.Order}}, checker.Options{})
//				if err != nil {
//					return nil, OrderOutput{}, err
//				}
//				return nil, OrderOutput{Valid: run.Failed() == 0}, nil
//			}
//		},
//	)
//
// Options override the environment:
//
//	server, err := mcpsrv.NewServer(
//		mcpsrv.WithDefaultDraft("draft4"),
//		mcpsrv.WithFormatCheck(true),
//		mcpsrv.WithLogFile("/var/log/schemacheck-mcp.log"),
//	)
package mcpsrv
