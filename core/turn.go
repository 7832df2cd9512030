package orchestration

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/grandrevier/concierge-core/core/llms"
)

// turnStage is the state of one conversation turn. A turn always moves
// forward: reason, optionally execute tools and reason once more, done.
// There is no iterative tool chaining beyond that single follow-up round;
// tool calls in the follow-up response are treated as inert.
type turnStage string

const (
	turnStageReason       turnStage = "reason"
	turnStageExecuteTools turnStage = "execute_tools"
	turnStageResolve      turnStage = "resolve"
	turnStageDone         turnStage = "done"
)

func (o *Orchestrator) advanceTurn(ctx context.Context, stage turnStage) (turnStage, string, error) {
	switch stage {
	case turnStageReason:
		response, err := o.llm.respond(ctx, o.session.History(), o.registry.Catalog())
		if err != nil {
			return turnStageDone, "", err
		}

		o.session.AppendAssistant(*response)
		if response.HasToolCalls() {
			return turnStageExecuteTools, "", nil
		}
		return turnStageDone, response.Content, nil

	case turnStageExecuteTools:
		o.executeToolCalls(ctx)
		return turnStageResolve, "", nil

	case turnStageResolve:
		response, err := o.llm.respond(ctx, o.session.History(), o.registry.Catalog())
		if err != nil {
			return turnStageDone, "", err
		}

		if response.HasToolCalls() {
			logger.WarnContext(ctx, "tool calls in follow-up response ignored",
				"count", len(response.ToolCalls))
		}
		o.session.AppendAssistant(llms.Response{Content: response.Content})
		return turnStageDone, response.Content, nil
	}

	return turnStageDone, "", fmt.Errorf("invalid turn stage: %s", stage)
}

// executeToolCalls runs the tool calls of the latest assistant message, in
// the order the model emitted them. Calls in the same batch execute
// independently; none sees another's result. A failed resolution or
// invocation becomes an error-text tool result and the turn carries on.
func (o *Orchestrator) executeToolCalls(ctx context.Context) {
	history := o.session.History()
	if len(history) == 0 {
		return
	}

	for _, call := range history[len(history)-1].ToolCalls {
		_, span := tracer.Start(ctx, "execute tool")
		span.SetAttributes(attribute.String("tool.name", call.Name))

		output, err := o.invokeTool(call)
		if err != nil {
			span.RecordError(err)
			output = fmt.Sprintf("Error: %s", err)
		}

		o.session.AppendToolResult(call.ID, output)
		span.End()
	}
}

func (o *Orchestrator) invokeTool(call llms.ToolCall) (output string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("tool %q panicked: %v", call.Name, recovered)
		}
	}()

	tool, err := o.registry.Resolve(call.Name)
	if err != nil {
		return "", err
	}

	output, err = tool.Execute(call.Arguments)
	if err != nil {
		return "", fmt.Errorf("failed to execute tool %q: %w", call.Name, err)
	}
	return output, nil
}
