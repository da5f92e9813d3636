package tool

import (
	"context"
	"encoding/json"

	"github.com/robertcrowe/arrg/workspace"
)

// workspaceWriteArgs defines arguments for the workspace write tool.
type workspaceWriteArgs struct {
	Key       string `json:"key" desc:"Key to store the value under" required:"true"`
	Value     string `json:"value" desc:"Value to store" required:"true"`
	Overwrite bool   `json:"overwrite" desc:"Replace the value if the key already exists"`
}

// workspaceReadArgs defines arguments for the workspace read tool.
type workspaceReadArgs struct {
	Key string `json:"key" desc:"Key to read" required:"true"`
}

// WorkspaceTools returns tools that let the model read, write, and list
// entries in the shared workspace.
func WorkspaceTools(ws *workspace.Workspace) []ToolPair {
	write := Func("workspace_write", "Store a value in the shared workspace",
		func(ctx context.Context, args workspaceWriteArgs) (string, error) {
			var opts []workspace.PutOption
			if args.Overwrite {
				opts = append(opts, workspace.WithOverwrite())
			}
			key, err := ws.Put(ctx, args.Key, args.Value, opts...)
			if err != nil {
				return "", err
			}
			out, err := json.Marshal(map[string]any{"key": key, "stored": true})
			if err != nil {
				return "", err
			}
			return string(out), nil
		})

	read := Func("workspace_read", "Read a value from the shared workspace",
		func(ctx context.Context, args workspaceReadArgs) (string, error) {
			raw, err := ws.Get(ctx, args.Key)
			if err != nil {
				return "", err
			}
			// Plain strings are unwrapped, anything else returns as JSON.
			var value string
			if json.Unmarshal(raw, &value) == nil {
				return value, nil
			}
			return string(raw), nil
		})

	list := Func("workspace_list", "List the keys stored in the shared workspace",
		func(ctx context.Context, _ struct{}) (string, error) {
			keys, err := ws.Keys(ctx)
			if err != nil {
				return "", err
			}
			out, err := json.Marshal(map[string]any{"keys": keys, "count": len(keys)})
			if err != nil {
				return "", err
			}
			return string(out), nil
		})

	return []ToolPair{
		{Tool: write.Tool, Handler: write.Handler},
		{Tool: read.Tool, Handler: read.Handler},
		{Tool: list.Tool, Handler: list.Handler},
	}
}
