package format

import (
	"encoding/json"
	"testing"

	"github.com/poemonsense/antigravity-proxy-go/pkg/anthropic"
)

func TestConvertOpenAIToAnthropicBasicText(t *testing.T) {
	req := &OpenAIChatRequest{
		Model: "claude-opus-4-5",
		Messages: []OpenAIChatMessage{
			{Role: "system", Content: "be concise"},
			{Role: "user", Content: "hello there"},
		},
	}

	out := ConvertOpenAIToAnthropic(req)
	if out.System != "be concise" {
		t.Errorf("system = %v, want %q", out.System, "be concise")
	}
	if out.MaxTokens != 4096 {
		t.Errorf("max_tokens default = %d, want 4096", out.MaxTokens)
	}
	if len(out.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(out.Messages))
	}
	if out.Messages[0].Content[0].Text != "hello there" {
		t.Errorf("text = %q", out.Messages[0].Content[0].Text)
	}
}

func TestConvertOpenAIToAnthropicMultiplePartsAndSystem(t *testing.T) {
	req := &OpenAIChatRequest{
		Model: "claude-opus-4-5",
		Messages: []OpenAIChatMessage{
			{Role: "system", Content: "first"},
			{Role: "system", Content: "second"},
			{Role: "user", Content: []interface{}{
				map[string]interface{}{"type": "text", "text": "part one"},
				map[string]interface{}{"type": "text", "text": " part two"},
				map[string]interface{}{"type": "image_url", "image_url": map[string]interface{}{"url": "data:..."}},
			}},
		},
	}

	out := ConvertOpenAIToAnthropic(req)
	if out.System != "first\n\nsecond" {
		t.Errorf("system = %v, want joined system parts", out.System)
	}
	if out.Messages[0].Content[0].Text != "part one part two" {
		t.Errorf("text = %q, want concatenated text parts only", out.Messages[0].Content[0].Text)
	}
}

func TestConvertOpenAIToAnthropicToolCallsAndToolResults(t *testing.T) {
	req := &OpenAIChatRequest{
		Model: "claude-opus-4-5",
		Messages: []OpenAIChatMessage{
			{
				Role: "assistant",
				ToolCalls: []OpenAIToolCall{
					{ID: "call_1", Type: "function", Function: OpenAIToolCallFunc{Name: "get_weather", Arguments: `{"city":"nyc"}`}},
				},
			},
			{Role: "tool", ToolCallID: "call_1", Content: "72F and sunny"},
		},
	}

	out := ConvertOpenAIToAnthropic(req)
	if len(out.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(out.Messages))
	}

	toolUse := out.Messages[0].Content[0]
	if toolUse.Type != "tool_use" || toolUse.Name != "get_weather" || toolUse.ID != "call_1" {
		t.Errorf("tool_use block = %+v", toolUse)
	}

	toolResult := out.Messages[1].Content[0]
	if toolResult.Type != "tool_result" || toolResult.ToolUseID != "call_1" {
		t.Errorf("tool_result block = %+v", toolResult)
	}
}

func TestConvertOpenAIToAnthropicTools(t *testing.T) {
	req := &OpenAIChatRequest{
		Model: "claude-opus-4-5",
		Tools: []OpenAITool{
			{Type: "function", Function: OpenAIToolFunction{
				Name:        "get_weather",
				Description: "fetch weather",
				Parameters:  map[string]interface{}{"type": "object"},
			}},
		},
	}

	out := ConvertOpenAIToAnthropic(req)
	if len(out.Tools) != 1 {
		t.Fatalf("tools = %d, want 1", len(out.Tools))
	}
	if out.Tools[0].Name != "get_weather" {
		t.Errorf("tool name = %q", out.Tools[0].Name)
	}
}

func TestConvertAnthropicToOpenAITextAndToolUse(t *testing.T) {
	resp := &anthropic.MessagesResponse{
		ID:         "msg_1",
		Model:      "claude-opus-4-5",
		StopReason: "tool_use",
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: "let me check"},
			{Type: "tool_use", ID: "call_1", Name: "get_weather", Input: json.RawMessage(`{"city":"nyc"}`)},
		},
		Usage: &anthropic.Usage{InputTokens: 10, OutputTokens: 5},
	}

	out := ConvertAnthropicToOpenAI(resp, 1234)
	if out.Choices[0].FinishReason != "tool_calls" {
		t.Errorf("finish_reason = %q, want tool_calls", out.Choices[0].FinishReason)
	}
	if out.Choices[0].Message.Content != "let me check" {
		t.Errorf("content = %v", out.Choices[0].Message.Content)
	}
	if len(out.Choices[0].Message.ToolCalls) != 1 || out.Choices[0].Message.ToolCalls[0].Function.Name != "get_weather" {
		t.Errorf("tool calls = %+v", out.Choices[0].Message.ToolCalls)
	}
	if out.Usage.TotalTokens != 15 {
		t.Errorf("total_tokens = %d, want 15", out.Usage.TotalTokens)
	}
}

func TestFinishReasonToOpenAI(t *testing.T) {
	cases := map[string]string{
		"max_tokens":    "length",
		"tool_use":      "tool_calls",
		"stop_sequence": "stop",
		"":              "stop",
		"end_turn":      "stop",
	}
	for in, want := range cases {
		if got := finishReasonToOpenAI(in); got != want {
			t.Errorf("finishReasonToOpenAI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConvertSSEEventToOpenAIChunksTextDelta(t *testing.T) {
	chunks := ConvertSSEEventToOpenAIChunks(
		"content_block_delta",
		map[string]interface{}{"type": "text_delta", "text": "hi"},
		nil, "chatcmpl_1", "claude-opus-4-5", 1234,
	)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0].Choices[0].Delta.Content != "hi" {
		t.Errorf("content = %q", chunks[0].Choices[0].Delta.Content)
	}
}

func TestConvertSSEEventToOpenAIChunksEmptyTextDeltaDropped(t *testing.T) {
	chunks := ConvertSSEEventToOpenAIChunks(
		"content_block_delta",
		map[string]interface{}{"type": "text_delta", "text": ""},
		nil, "chatcmpl_1", "claude-opus-4-5", 1234,
	)
	if chunks != nil {
		t.Errorf("expected no chunk for empty text delta, got %+v", chunks)
	}
}

func TestConvertSSEEventToOpenAIChunksToolUseStart(t *testing.T) {
	chunks := ConvertSSEEventToOpenAIChunks(
		"content_block_start",
		nil,
		&anthropic.ContentBlock{Type: "tool_use", ID: "call_1", Name: "get_weather"},
		"chatcmpl_1", "claude-opus-4-5", 1234,
	)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	tc := chunks[0].Choices[0].Delta.ToolCalls[0]
	if tc.ID != "call_1" || tc.Function.Name != "get_weather" {
		t.Errorf("tool call delta = %+v", tc)
	}
}

func TestConvertSSEEventToOpenAIChunksMessageDeltaWithStopReason(t *testing.T) {
	chunks := ConvertSSEEventToOpenAIChunks(
		"message_delta",
		map[string]interface{}{"stop_reason": "end_turn"},
		nil, "chatcmpl_1", "claude-opus-4-5", 1234,
	)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0].Choices[0].FinishReason == nil || *chunks[0].Choices[0].FinishReason != "stop" {
		t.Errorf("finish_reason = %v, want stop", chunks[0].Choices[0].FinishReason)
	}
}

func TestConvertSSEEventToOpenAIChunksUnknownEventIgnored(t *testing.T) {
	chunks := ConvertSSEEventToOpenAIChunks("ping", nil, nil, "chatcmpl_1", "claude-opus-4-5", 1234)
	if chunks != nil {
		t.Errorf("expected no chunks for unrecognized event, got %+v", chunks)
	}
}
