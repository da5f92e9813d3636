// Package tool provides the tool registry and built-in tools for the
// research pipeline.
//
// This package includes:
//   - Registry and Handler types for tool management
//   - Typed registration with automatic schema generation from struct tags
//   - Built-in tools: web search, URL fetch, and workspace access
//
// # Basic Usage
//
// Define tool arguments as a struct with tags, then register a typed
// handler:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	    Unit     string `json:"unit" desc:"Temperature unit" enum:"celsius,fahrenheit"`
//	}
//
//	registry := tool.NewRegistry()
//	tool.MustRegisterFunc(registry, "get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return fmt.Sprintf(`{"temp": 72, "location": %q}`, args.Location), nil
//	    })
//
// # Execution Semantics
//
// Registry.Execute never surfaces handler failures as Go errors: a failed
// handler produces a ToolResult with IsError set, so the model can see
// the failure and recover. Only structural problems (unknown tool name)
// return an error.
//
// # Supported Struct Tags
//
//	json:"name"      - Property name (required for inclusion)
//	desc:"text"      - Description for the model
//	required:"true"  - Mark field as required
//	enum:"a,b,c"     - Allowed values (comma-separated)
package tool
