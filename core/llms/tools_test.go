package llms

import (
	"strings"
	"testing"
)

type greetArgs struct {
	Name string `json:"name"`
}

func TestNewToolDecodesArguments(t *testing.T) {
	tool := NewTool("greet", "Greets a guest.", func(args greetArgs) (string, error) {
		return "Hello, " + args.Name, nil
	})

	output, err := tool.Execute(`{"name":"Agatha"}`)
	if err != nil {
		t.Fatalf("expected execution to succeed, got %v", err)
	}
	if output != "Hello, Agatha" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestNewToolTreatsEmptyArgumentsAsEmptyObject(t *testing.T) {
	tool := NewTool("ping", "Pings.", func(struct{}) (string, error) {
		return "pong", nil
	})

	output, err := tool.Execute("")
	if err != nil {
		t.Fatalf("expected execution to succeed, got %v", err)
	}
	if output != "pong" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestNewToolRejectsUnknownArgumentFields(t *testing.T) {
	tool := NewTool("greet", "Greets a guest.", func(greetArgs) (string, error) {
		return "", nil
	})

	if _, err := tool.Execute(`{"name":"Agatha","room":"101"}`); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestNewToolRejectsMalformedArguments(t *testing.T) {
	tool := NewTool("greet", "Greets a guest.", func(greetArgs) (string, error) {
		return "", nil
	})

	_, err := tool.Execute(`{"name":`)
	if err == nil {
		t.Fatalf("expected malformed arguments to be rejected")
	}
	if !strings.Contains(err.Error(), "greet") {
		t.Fatalf("expected the error to name the tool, got %v", err)
	}
}

func TestNewToolReflectsParameterSchema(t *testing.T) {
	tool := NewTool("greet", "Greets a guest.", func(greetArgs) (string, error) {
		return "", nil
	})

	if tool.Parameters == nil {
		t.Fatalf("expected a parameter schema")
	}
	if tool.Parameters.Version != "" {
		t.Fatalf("expected a bare schema object, got version %q", tool.Parameters.Version)
	}
	if _, ok := tool.Parameters.Properties.Get("name"); !ok {
		t.Fatalf("expected schema to describe the name argument")
	}
}

func TestToolWithoutHandler(t *testing.T) {
	tool := Tool{Name: "ghost"}

	if _, err := tool.Execute("{}"); err == nil {
		t.Fatalf("expected handler-less tool to fail")
	}
}
