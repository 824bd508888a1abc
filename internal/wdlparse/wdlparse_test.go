package wdlparse

import (
	"testing"

	"github.com/gowdl/wdlsem/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, diags, err := Parse("t.wdl", []byte(src))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s: %s", d.RuleID, d.Primary.Message)
	}
	return doc
}

func TestParseVersionHeader(t *testing.T) {
	doc := mustParse(t, "version 1.2\n")
	if doc.Version != "1.2" {
		t.Fatalf("got version %q, want 1.2", doc.Version)
	}
}

func TestParseImportWithAliasAndStructAlias(t *testing.T) {
	doc := mustParse(t, `version 1.2
import "lib/types.wdl" as lib alias Foreign as Local
`)
	if len(doc.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(doc.Imports))
	}
	imp := doc.Imports[0]
	if imp.URI != "lib/types.wdl" || imp.Alias != "lib" {
		t.Fatalf("unexpected import: %+v", imp)
	}
	if len(imp.StructAliases) != 1 || imp.StructAliases[0].Foreign != "Foreign" || imp.StructAliases[0].Local != "Local" {
		t.Fatalf("unexpected struct aliases: %+v", imp.StructAliases)
	}
}

func TestParseStructDecl(t *testing.T) {
	doc := mustParse(t, `version 1.2
struct Sample {
  String name
  Array[File]+ reads
}
`)
	if len(doc.Structs) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(doc.Structs))
	}
	s := doc.Structs[0]
	if s.Name != "Sample" || len(s.Members) != 2 {
		t.Fatalf("unexpected struct: %+v", s)
	}
	if s.Members[1].Type.Kind != ast.TypeArray || !s.Members[1].Type.NonEmpty {
		t.Fatalf("expected a non-empty Array[File] member, got %+v", s.Members[1].Type)
	}
}

func TestParseTaskWithCommandPlaceholderAndRuntime(t *testing.T) {
	doc := mustParse(t, `version 1.2
task greet {
  input {
    String name
  }
  command {
    echo "hello ~{name}"
  }
  output {
    String greeting = read_string(stdout())
  }
  runtime {
    docker: "ubuntu:latest"
  }
}
`)
	if len(doc.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(doc.Tasks))
	}
	task := doc.Tasks[0]
	if task.Name != "greet" || len(task.Inputs) != 1 || len(task.Outputs) != 1 {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Command == nil || len(task.Command.Parts) == 0 {
		t.Fatalf("expected a non-empty command section")
	}
	var sawPlaceholder bool
	for _, part := range task.Command.Parts {
		if part.Placeholder != nil {
			sawPlaceholder = true
		}
	}
	if !sawPlaceholder {
		t.Fatalf("expected the command section to carry a ~{name} placeholder")
	}
	if len(task.Runtime) != 1 || task.Runtime[0].Key != "docker" {
		t.Fatalf("unexpected runtime block: %+v", task.Runtime)
	}
	out := task.Outputs[0].Expr
	call, ok := out.(*ast.CallExpr)
	if !ok || call.Func != "read_string" {
		t.Fatalf("expected output initializer to be a read_string(...) call, got %#v", out)
	}
}

func TestParseWorkflowWithCallScatterAndConditional(t *testing.T) {
	doc := mustParse(t, `version 1.2
workflow main {
  input {
    Array[String] names
  }
  scatter (n in names) {
    if (n != "") {
      call greet { input: name = n }
    }
  }
  output {
    Array[String] greetings = greet.greeting
  }
}
`)
	if doc.Workflow == nil {
		t.Fatalf("expected a workflow")
	}
	wf := doc.Workflow
	if len(wf.Body) != 1 {
		t.Fatalf("expected a single top-level scatter statement, got %d", len(wf.Body))
	}
	scatter, ok := wf.Body[0].(*ast.Scatter)
	if !ok {
		t.Fatalf("expected a Scatter statement, got %#v", wf.Body[0])
	}
	if scatter.Var != "n" || len(scatter.Body) != 1 {
		t.Fatalf("unexpected scatter: %+v", scatter)
	}
	cond, ok := scatter.Body[0].(*ast.Conditional)
	if !ok || len(cond.Body) != 1 {
		t.Fatalf("expected a Conditional inside the scatter body, got %#v", scatter.Body[0])
	}
	call, ok := cond.Body[0].(*ast.Call)
	if !ok || call.CalleeName() != "greet" {
		t.Fatalf("expected a call to greet, got %#v", cond.Body[0])
	}
	if len(call.Inputs) != 1 || call.Inputs[0].Key != "name" {
		t.Fatalf("unexpected call inputs: %+v", call.Inputs)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	doc := mustParse(t, `version 1.2
workflow w {
  output {
    Boolean b = 1 + 2 * 3 == 7 && !false
  }
}
`)
	out := doc.Workflow.Outputs[0].Expr
	bin, ok := out.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAnd {
		t.Fatalf("expected a top-level && expression, got %#v", out)
	}
	eq, ok := bin.Left.(*ast.BinaryExpr)
	if !ok || eq.Op != ast.OpEq {
		t.Fatalf("expected the left side to be an == comparison, got %#v", bin.Left)
	}
	add, ok := eq.Left.(*ast.BinaryExpr)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected 1 + 2*3 to parse with * binding tighter than +, got %#v", eq.Left)
	}
	if _, ok := add.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected the right operand of + to be the 2*3 product, got %#v", add.Right)
	}
}

func TestParseRecoversFromMalformedTask(t *testing.T) {
	doc, diags, err := Parse("t.wdl", []byte(`version 1.2
task broken {
  input {
    NotAType +++ !!!
  }
}
task ok {
  command { echo hi }
}
`))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic for the malformed input block")
	}
	var names []string
	for _, task := range doc.Tasks {
		names = append(names, task.Name)
	}
	found := false
	for _, n := range names {
		if n == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the well-formed task 'ok' to still be parsed, got tasks %v", names)
	}
}
