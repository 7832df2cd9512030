package llms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Tool is a named operation the assistant may request during a turn.
// Parameters describes the argument object as a JSON schema derived from the
// handler's parameter struct.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema

	execute func(arguments string) (string, error)
}

// NewTool builds a Tool whose argument schema is reflected from T. The
// handler receives the decoded arguments; unknown argument fields are
// rejected before the handler runs.
func NewTool[T any](name, description string, execute func(parameters T) (string, error)) Tool {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.ReflectFromType(reflect.TypeOf((*T)(nil)).Elem())
	// The provider expects a bare schema object, not a standalone document.
	schema.Version = ""

	return Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
		execute: func(arguments string) (string, error) {
			if arguments == "" {
				arguments = "{}"
			}

			var parameters T
			decoder := json.NewDecoder(bytes.NewReader([]byte(arguments)))
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&parameters); err != nil {
				return "", fmt.Errorf("invalid arguments for tool %q: %w", name, err)
			}

			return execute(parameters)
		},
	}
}

// Execute runs the tool against raw JSON-encoded arguments.
func (t Tool) Execute(arguments string) (string, error) {
	if t.execute == nil {
		return "", fmt.Errorf("tool %q has no handler", t.Name)
	}
	return t.execute(arguments)
}
