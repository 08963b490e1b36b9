package cloudcode

import (
	"strings"
	"testing"
)

func TestParseThinkingSSEResponseAccumulatesText(t *testing.T) {
	body := strings.Join([]string{
		`data: {"response":{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}}`,
		`data: {"response":{"candidates":[{"content":{"parts":[{"text":", world"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":2}}}`,
		"",
	}, "\n\n")

	resp, err := ParseThinkingSSEResponse(strings.NewReader(body), "claude-opus-4-5", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != "text" {
		t.Fatalf("content = %+v, want single text block", resp.Content)
	}
	if resp.Content[0].Text != "Hello, world" {
		t.Errorf("text = %q, want accumulated \"Hello, world\"", resp.Content[0].Text)
	}
	if resp.StopReason == "" {
		t.Error("expected a non-empty stop reason")
	}
}

func TestParseThinkingSSEResponseFunctionCall(t *testing.T) {
	body := `data: {"response":{"candidates":[{"content":{"parts":[{"functionCall":{"name":"get_weather","args":{"city":"nyc"}}}]},"finishReason":"STOP"}]}}` + "\n\n"

	resp, err := ParseThinkingSSEResponse(strings.NewReader(body), "claude-opus-4-5", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != "tool_use" {
		t.Fatalf("content = %+v, want single tool_use block", resp.Content)
	}
	if resp.Content[0].Name != "get_weather" {
		t.Errorf("tool name = %q", resp.Content[0].Name)
	}
}

func TestParseThinkingSSEResponseThoughtThenText(t *testing.T) {
	body := `data: {"response":{"candidates":[{"content":{"parts":[{"thought":true,"text":"reasoning..."},{"text":"answer"}]},"finishReason":"STOP"}]}}` + "\n\n"

	resp, err := ParseThinkingSSEResponse(strings.NewReader(body), "claude-opus-4-5", "")
	if err != nil {
		t.Fatal(err)
	}
	var sawThinking, sawText bool
	for _, block := range resp.Content {
		if block.Type == "thinking" {
			sawThinking = true
			if block.Thinking != "reasoning..." {
				t.Errorf("thinking text = %q", block.Thinking)
			}
		}
		if block.Type == "text" {
			sawText = true
			if block.Text != "answer" {
				t.Errorf("text = %q", block.Text)
			}
		}
	}
	if !sawThinking || !sawText {
		t.Fatalf("content = %+v, want both thinking and text blocks", resp.Content)
	}
}

func TestParseThinkingSSEResponseIgnoresNonDataLines(t *testing.T) {
	body := "event: ping\n\n" + `data: {"response":{"candidates":[{"content":{"parts":[{"text":"ok"}]},"finishReason":"STOP"}]}}` + "\n\n"

	resp, err := ParseThinkingSSEResponse(strings.NewReader(body), "claude-opus-4-5", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Text != "ok" {
		t.Fatalf("content = %+v", resp.Content)
	}
}
