package format

import (
	"testing"

	"github.com/poemonsense/antigravity-proxy-go/pkg/anthropic"
)

func TestConvertAnthropicToGoogleBasicTextMessage(t *testing.T) {
	req := &anthropic.MessagesRequest{
		Model:     "claude-opus-4-5",
		MaxTokens: 1024,
		System:    "be helpful",
		Messages: []anthropic.Message{
			{Role: "user", Content: []anthropic.ContentBlock{{Type: "text", Text: "hi"}}},
		},
	}

	out := ConvertAnthropicToGoogle(req)
	if out.SystemInstruction == nil || out.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Fatalf("system instruction = %+v", out.SystemInstruction)
	}
	if len(out.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(out.Contents))
	}
	if out.Contents[0].Role != "user" {
		t.Errorf("role = %q, want user", out.Contents[0].Role)
	}
	if out.GenerationConfig.MaxOutputTokens != 1024 {
		t.Errorf("max_output_tokens = %d, want 1024", out.GenerationConfig.MaxOutputTokens)
	}
}

func TestConvertAnthropicToGoogleAssistantRoleMapsToModel(t *testing.T) {
	req := &anthropic.MessagesRequest{
		Model: "claude-opus-4-5",
		Messages: []anthropic.Message{
			{Role: "user", Content: []anthropic.ContentBlock{{Type: "text", Text: "hi"}}},
			{Role: "assistant", Content: []anthropic.ContentBlock{{Type: "text", Text: "hello"}}},
		},
	}

	out := ConvertAnthropicToGoogle(req)
	if len(out.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(out.Contents))
	}
	if out.Contents[1].Role != "model" {
		t.Errorf("assistant role = %q, want model", out.Contents[1].Role)
	}
}

func TestConvertAnthropicToGoogleEmptyContentGetsPlaceholder(t *testing.T) {
	req := &anthropic.MessagesRequest{
		Model: "claude-opus-4-5",
		Messages: []anthropic.Message{
			{Role: "user", Content: []anthropic.ContentBlock{}},
		},
	}

	out := ConvertAnthropicToGoogle(req)
	if len(out.Contents[0].Parts) == 0 {
		t.Fatal("expected a placeholder part for empty content")
	}
}

func TestConvertAnthropicToGoogleStringSystemIgnoredWhenEmpty(t *testing.T) {
	req := &anthropic.MessagesRequest{
		Model:  "claude-opus-4-5",
		System: "",
		Messages: []anthropic.Message{
			{Role: "user", Content: []anthropic.ContentBlock{{Type: "text", Text: "hi"}}},
		},
	}

	out := ConvertAnthropicToGoogle(req)
	if out.SystemInstruction != nil {
		t.Errorf("expected nil system instruction for empty system string, got %+v", out.SystemInstruction)
	}
}
