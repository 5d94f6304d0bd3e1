package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// schemaValidator checks tool arguments against each tool's input schema
// before the handler runs.
type schemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func newSchemaValidator(defs []mcp.Tool) (*schemaValidator, error) {
	v := &schemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(defs))}
	for _, tool := range defs {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("encode %s schema: %w", tool.Name, err)
		}
		var schemaMap map[string]interface{}
		if err := json.Unmarshal(raw, &schemaMap); err != nil {
			return nil, fmt.Errorf("decode %s schema: %w", tool.Name, err)
		}
		schemaMap["additionalProperties"] = false

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", tool.Name, err)
		}
		v.schemas[tool.Name] = schema
	}
	return v, nil
}

// Middleware rejects calls whose arguments do not match the schema with a
// failed tool result listing the violations.
func (v *schemaValidator) Middleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		schema, ok := v.schemas[req.Params.Name]
		if !ok {
			return next(ctx, req)
		}
		if err := validateArguments(schema, req.GetArguments()); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return next(ctx, req)
	}
}

func validateArguments(schema *gojsonschema.Schema, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// LoggingMiddleware logs every tool call with its duration and outcome.
func LoggingMiddleware(log zerolog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)

			var ev *zerolog.Event
			switch {
			case err != nil:
				ev = log.Error().Err(err)
			case res != nil && res.IsError:
				ev = log.Warn().Str("error", resultText(res))
			default:
				ev = log.Debug()
			}
			ev.Str("tool", req.Params.Name).
				Dur("duration", time.Since(start)).
				Msg("tool call")
			return res, err
		}
	}
}

func resultText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}
