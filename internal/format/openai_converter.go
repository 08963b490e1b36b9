// Package format provides conversion between Anthropic and Google Generative AI formats.
// This file adds conversion between the OpenAI chat-completions format and the
// Anthropic Messages format, so /v1/chat/completions can reuse the same
// dispatcher and Cloud Code client as /v1/messages.
package format

import (
	"encoding/json"

	"github.com/poemonsense/antigravity-proxy-go/pkg/anthropic"
)

// OpenAIChatRequest represents a request to POST /v1/chat/completions
type OpenAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []OpenAIChatMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Stream      bool                `json:"stream,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	TopP        *float64            `json:"top_p,omitempty"`
	Stop        []string            `json:"stop,omitempty"`
	Tools       []OpenAITool        `json:"tools,omitempty"`
	ToolChoice  interface{}         `json:"tool_choice,omitempty"`
}

// OpenAIChatMessage is one entry in an OpenAI chat-completions message array
type OpenAIChatMessage struct {
	Role       string               `json:"role"`
	Content    interface{}          `json:"content,omitempty"`
	Name       string               `json:"name,omitempty"`
	ToolCalls  []OpenAIToolCall     `json:"tool_calls,omitempty"`
	ToolCallID string               `json:"tool_call_id,omitempty"`
}

// OpenAIContentPart is one element of a multi-part OpenAI message content array
type OpenAIContentPart struct {
	Type     string              `json:"type"`
	Text     string              `json:"text,omitempty"`
	ImageURL *OpenAIImageURLPart `json:"image_url,omitempty"`
}

// OpenAIImageURLPart holds the image_url payload of a content part
type OpenAIImageURLPart struct {
	URL string `json:"url"`
}

// OpenAITool represents a function tool in OpenAI format
type OpenAITool struct {
	Type     string             `json:"type"`
	Function OpenAIToolFunction `json:"function"`
}

// OpenAIToolFunction describes a callable function
type OpenAIToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// OpenAIToolCall is a tool invocation requested by the assistant
type OpenAIToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function OpenAIToolCallFunc `json:"function"`
}

// OpenAIToolCallFunc carries the name and serialized arguments of a tool call
type OpenAIToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// OpenAIChatResponse represents a non-streaming POST /v1/chat/completions response
type OpenAIChatResponse struct {
	ID      string               `json:"id"`
	Object  string               `json:"object"`
	Created int64                `json:"created"`
	Model   string               `json:"model"`
	Choices []OpenAIChatChoice   `json:"choices"`
	Usage   *OpenAIUsage         `json:"usage,omitempty"`
}

// OpenAIChatChoice is one completion choice
type OpenAIChatChoice struct {
	Index        int                `json:"index"`
	Message      OpenAIChatMessage  `json:"message"`
	FinishReason string             `json:"finish_reason"`
}

// OpenAIUsage mirrors the OpenAI usage block
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// OpenAIChatChunk is one chunk of a streamed chat-completions response
type OpenAIChatChunk struct {
	ID      string                  `json:"id"`
	Object  string                  `json:"object"`
	Created int64                   `json:"created"`
	Model   string                  `json:"model"`
	Choices []OpenAIChatChunkChoice `json:"choices"`
}

// OpenAIChatChunkChoice is one choice within a streamed chunk
type OpenAIChatChunkChoice struct {
	Index        int                `json:"index"`
	Delta        OpenAIChatDelta    `json:"delta"`
	FinishReason *string            `json:"finish_reason"`
}

// OpenAIChatDelta is the incremental content of a streamed chunk
type OpenAIChatDelta struct {
	Role      string           `json:"role,omitempty"`
	Content   string           `json:"content,omitempty"`
	ToolCalls []OpenAIToolCall `json:"tool_calls,omitempty"`
}

// finishReasonToOpenAI maps Anthropic stop reasons to OpenAI finish reasons
func finishReasonToOpenAI(stopReason string) string {
	switch stopReason {
	case "max_tokens":
		return "length"
	case "tool_use":
		return "tool_calls"
	case "stop_sequence":
		return "stop"
	case "":
		return "stop"
	default:
		return "stop"
	}
}

// ConvertOpenAIToAnthropic converts an OpenAI chat-completions request into an
// Anthropic Messages request so it can be routed through the existing
// request/response translator and dispatcher.
func ConvertOpenAIToAnthropic(req *OpenAIChatRequest) *anthropic.MessagesRequest {
	out := &anthropic.MessagesRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	if out.MaxTokens == 0 {
		out.MaxTokens = 4096
	}
	if req.Temperature != nil {
		out.Temperature = req.Temperature
	}
	if req.TopP != nil {
		out.TopP = req.TopP
	}
	if len(req.Stop) > 0 {
		out.StopSequences = req.Stop
	}

	var systemParts []string
	messages := make([]anthropic.Message, 0, len(req.Messages))

	for _, m := range req.Messages {
		if m.Role == "system" {
			if text := openAIContentToText(m.Content); text != "" {
				systemParts = append(systemParts, text)
			}
			continue
		}

		role := m.Role
		if role == "tool" {
			// Tool results become a user message carrying a tool_result block.
			messages = append(messages, anthropic.Message{
				Role: "user",
				Content: []anthropic.ContentBlock{
					{
						Type:      "tool_result",
						ToolUseID: m.ToolCallID,
						Content:   openAIContentToText(m.Content),
					},
				},
			})
			continue
		}

		blocks := make([]anthropic.ContentBlock, 0, 1+len(m.ToolCalls))
		if text := openAIContentToText(m.Content); text != "" {
			blocks = append(blocks, anthropic.ContentBlock{Type: "text", Text: text})
		}
		for _, tc := range m.ToolCalls {
			blocks = append(blocks, anthropic.ContentBlock{
				Type:  "tool_use",
				ID:    tc.ID,
				Name:  tc.Function.Name,
				Input: json.RawMessage(tc.Function.Arguments),
			})
		}
		if len(blocks) == 0 {
			continue
		}
		messages = append(messages, anthropic.Message{Role: role, Content: blocks})
	}

	out.Messages = messages
	if len(systemParts) > 0 {
		joined := systemParts[0]
		for _, p := range systemParts[1:] {
			joined += "\n\n" + p
		}
		out.System = joined
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.Tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			schema, _ := json.Marshal(t.Function.Parameters)
			tools = append(tools, anthropic.Tool{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				InputSchema: schema,
			})
		}
		out.Tools = tools
	}

	return out
}

// openAIContentToText flattens an OpenAI message content field (string or an
// array of content parts) down to its text, dropping non-text parts. Image
// parts are not forwarded: this converter targets text/tool-call round trips.
func openAIContentToText(content interface{}) string {
	switch v := content.(type) {
	case string:
		return v
	case []interface{}:
		var text string
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if m["type"] == "text" {
				if s, ok := m["text"].(string); ok {
					text += s
				}
			}
		}
		return text
	default:
		return ""
	}
}

// ConvertAnthropicToOpenAI converts a completed Anthropic Messages response
// into an OpenAI chat-completions response.
func ConvertAnthropicToOpenAI(resp *anthropic.MessagesResponse, createdUnix int64) *OpenAIChatResponse {
	message := OpenAIChatMessage{Role: "assistant"}
	var text string
	var toolCalls []OpenAIToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text += block.Text
		case "tool_use":
			args, _ := json.Marshal(block.Input)
			toolCalls = append(toolCalls, OpenAIToolCall{
				ID:   block.ID,
				Type: "function",
				Function: OpenAIToolCallFunc{
					Name:      block.Name,
					Arguments: string(args),
				},
			})
		}
	}

	if text != "" {
		message.Content = text
	}
	message.ToolCalls = toolCalls

	out := &OpenAIChatResponse{
		ID:      resp.ID,
		Object:  "chat.completion",
		Created: createdUnix,
		Model:   resp.Model,
		Choices: []OpenAIChatChoice{
			{
				Index:        0,
				Message:      message,
				FinishReason: finishReasonToOpenAI(resp.StopReason),
			},
		},
	}

	if resp.Usage != nil {
		out.Usage = &OpenAIUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}

	return out
}

// ConvertSSEEventToOpenAIChunks turns one Anthropic-format SSE event into zero
// or more OpenAI chat-completion chunks sharing the given id/model/created.
// Most Anthropic events map to a single chunk; content_block_start for a
// tool_use block and message_stop map to none or to a terminal chunk.
func ConvertSSEEventToOpenAIChunks(eventType string, delta map[string]interface{}, contentBlock *anthropic.ContentBlock, id, model string, createdUnix int64) []OpenAIChatChunk {
	base := func() OpenAIChatChunk {
		return OpenAIChatChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: createdUnix,
			Model:   model,
		}
	}

	switch eventType {
	case "message_start":
		chunk := base()
		chunk.Choices = []OpenAIChatChunkChoice{{Index: 0, Delta: OpenAIChatDelta{Role: "assistant"}}}
		return []OpenAIChatChunk{chunk}

	case "content_block_start":
		if contentBlock != nil && contentBlock.Type == "tool_use" {
			chunk := base()
			chunk.Choices = []OpenAIChatChunkChoice{{
				Index: 0,
				Delta: OpenAIChatDelta{
					ToolCalls: []OpenAIToolCall{{
						ID:   contentBlock.ID,
						Type: "function",
						Function: OpenAIToolCallFunc{Name: contentBlock.Name},
					}},
				},
			}}
			return []OpenAIChatChunk{chunk}
		}
		return nil

	case "content_block_delta":
		if delta == nil {
			return nil
		}
		switch delta["type"] {
		case "text_delta":
			text, _ := delta["text"].(string)
			if text == "" {
				return nil
			}
			chunk := base()
			chunk.Choices = []OpenAIChatChunkChoice{{Index: 0, Delta: OpenAIChatDelta{Content: text}}}
			return []OpenAIChatChunk{chunk}
		case "input_json_delta":
			partial, _ := delta["partial_json"].(string)
			chunk := base()
			chunk.Choices = []OpenAIChatChunkChoice{{
				Index: 0,
				Delta: OpenAIChatDelta{
					ToolCalls: []OpenAIToolCall{{Function: OpenAIToolCallFunc{Arguments: partial}}},
				},
			}}
			return []OpenAIChatChunk{chunk}
		default:
			return nil
		}

	case "message_delta":
		if delta == nil {
			return nil
		}
		stopReason, _ := delta["stop_reason"].(string)
		if stopReason == "" {
			return nil
		}
		reason := finishReasonToOpenAI(stopReason)
		chunk := base()
		chunk.Choices = []OpenAIChatChunkChoice{{Index: 0, Delta: OpenAIChatDelta{}, FinishReason: &reason}}
		return []OpenAIChatChunk{chunk}

	default:
		return nil
	}
}
