package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions are available to every expression in a workspace file.
var functions = map[string]function.Function{
	"concat":  stdlib.ConcatFunc,
	"format":  stdlib.FormatFunc,
	"join":    stdlib.JoinFunc,
	"lower":   stdlib.LowerFunc,
	"replace": stdlib.ReplaceFunc,
	"upper":   stdlib.UpperFunc,
}

// workspaceContext is used for top-level blocks and project attributes.
func workspaceContext(root string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"workspace": cty.ObjectVal(map[string]cty.Value{
				"root": cty.StringVal(root),
			}),
		},
		Functions: functions,
	}
}

// projectContext is used for the task blocks of one project.
func projectContext(root, id, source string) *hcl.EvalContext {
	evalCtx := workspaceContext(root)
	evalCtx.Variables["project"] = cty.ObjectVal(map[string]cty.Value{
		"id":     cty.StringVal(id),
		"source": cty.StringVal(source),
	})
	return evalCtx
}
