package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/grandrevier/concierge-core/core/llms"
)

type roundTripperStub struct {
	responses []*http.Response
	err       error

	requests []*http.Request
	bodies   [][]byte
}

func (stub *roundTripperStub) RoundTrip(req *http.Request) (*http.Response, error) {
	stub.requests = append(stub.requests, req)
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		stub.bodies = append(stub.bodies, body)
	}

	if stub.err != nil {
		return nil, stub.err
	}
	if len(stub.responses) == 0 {
		return httpResponse(http.StatusInternalServerError, `{}`), nil
	}

	response := stub.responses[0]
	stub.responses = stub.responses[1:]
	return response, nil
}

func httpResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{},
	}
}

const completionWithContent = `{"choices":[{"message":{"role":"assistant","content":"Room 101 is free."}}]}`

func newTestClient(t *testing.T, stub *roundTripperStub, opts ...ClientOption) *Client {
	t.Helper()

	opts = append(opts, WithHTTPClient(&http.Client{Transport: stub}))
	client, err := NewClient("test-key", opts...)
	if err != nil {
		t.Fatalf("expected client to build, got %v", err)
	}
	return client
}

func TestRespondParsesCompletion(t *testing.T) {
	stub := &roundTripperStub{responses: []*http.Response{
		httpResponse(http.StatusOK, completionWithContent),
	}}
	client := newTestClient(t, stub)

	response, err := client.Respond(context.Background(),
		[]llms.Message{{Role: llms.MessageRoleUser, Content: "is room 101 free?"}}, nil)
	if err != nil {
		t.Fatalf("expected respond to succeed, got %v", err)
	}
	if response.Content != "Room 101 is free." || response.HasToolCalls() {
		t.Fatalf("unexpected response: %+v", response)
	}

	if len(stub.requests) != 1 {
		t.Fatalf("expected one round trip, got %d", len(stub.requests))
	}
	if auth := stub.requests[0].Header.Get("Authorization"); auth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
}

func TestRespondParsesToolCalls(t *testing.T) {
	stub := &roundTripperStub{responses: []*http.Response{
		httpResponse(http.StatusOK, `{"choices":[{"message":{"role":"assistant","tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"book_room","arguments":"{\"room_number\":\"101\"}"}}
		]}}]}`),
	}}
	client := newTestClient(t, stub)

	response, err := client.Respond(context.Background(),
		[]llms.Message{{Role: llms.MessageRoleUser, Content: "book 101"}}, nil)
	if err != nil {
		t.Fatalf("expected respond to succeed, got %v", err)
	}
	if !response.HasToolCalls() {
		t.Fatalf("expected tool calls, got %+v", response)
	}
	if response.ToolCalls[0].ID != "call_1" || response.ToolCalls[0].Name != "book_room" {
		t.Fatalf("unexpected tool call: %+v", response.ToolCalls[0])
	}
}

func TestRespondSendsToolChoiceWithTools(t *testing.T) {
	stub := &roundTripperStub{responses: []*http.Response{
		httpResponse(http.StatusOK, completionWithContent),
	}}
	client := newTestClient(t, stub)

	catalog := []llms.Tool{llms.NewTool("ping", "Pings.", func(struct{}) (string, error) { return "", nil })}
	if _, err := client.Respond(context.Background(), nil, catalog); err != nil {
		t.Fatalf("expected respond to succeed, got %v", err)
	}

	var sent requestBody
	if err := json.Unmarshal(stub.bodies[0], &sent); err != nil {
		t.Fatalf("expected a JSON request body, got %v", err)
	}
	if sent.ToolChoice == nil || *sent.ToolChoice != "auto" {
		t.Fatalf("expected tool_choice auto, got %v", sent.ToolChoice)
	}
	if len(sent.Tools) != 1 || sent.Tools[0].Function.Name != "ping" {
		t.Fatalf("unexpected tool payload: %+v", sent.Tools)
	}
}

func TestRespondRetriesTransientFailures(t *testing.T) {
	stub := &roundTripperStub{responses: []*http.Response{
		httpResponse(http.StatusInternalServerError, ``),
		httpResponse(http.StatusTooManyRequests, ``),
		httpResponse(http.StatusOK, completionWithContent),
	}}
	client := newTestClient(t, stub)

	response, err := client.Respond(context.Background(),
		[]llms.Message{{Role: llms.MessageRoleUser, Content: "hello"}}, nil)
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if response.Content != "Room 101 is free." {
		t.Fatalf("unexpected response: %+v", response)
	}
	if len(stub.requests) != 3 {
		t.Fatalf("expected three round trips, got %d", len(stub.requests))
	}
}

func TestRespondGivesUpAfterRetryBudget(t *testing.T) {
	stub := &roundTripperStub{}
	client := newTestClient(t, stub, WithTransientRetries(2))

	_, err := client.Respond(context.Background(),
		[]llms.Message{{Role: llms.MessageRoleUser, Content: "hello"}}, nil)
	if !errors.Is(err, llms.ErrUnavailable) {
		t.Fatalf("expected unavailability error, got %v", err)
	}
	if len(stub.requests) != 3 {
		t.Fatalf("expected initial attempt plus two retries, got %d round trips", len(stub.requests))
	}
}

func TestRespondDoesNotRetryClientErrors(t *testing.T) {
	stub := &roundTripperStub{responses: []*http.Response{
		httpResponse(http.StatusBadRequest, ``),
	}}
	client := newTestClient(t, stub)

	_, err := client.Respond(context.Background(),
		[]llms.Message{{Role: llms.MessageRoleUser, Content: "hello"}}, nil)
	if !errors.Is(err, llms.ErrUnavailable) {
		t.Fatalf("expected unavailability error, got %v", err)
	}
	if len(stub.requests) != 1 {
		t.Fatalf("expected a single round trip, got %d", len(stub.requests))
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected missing api key to fail")
	}
}
