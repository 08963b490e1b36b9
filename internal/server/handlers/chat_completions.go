// Package handlers provides HTTP request handlers for the server.
// This file handles the OpenAI-compatible /v1/chat/completions endpoint,
// translating to and from the Anthropic Messages format so it can share the
// same dispatcher and Cloud Code client as /v1/messages.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poemonsense/antigravity-proxy-go/internal/account"
	"github.com/poemonsense/antigravity-proxy-go/internal/cloudcode"
	"github.com/poemonsense/antigravity-proxy-go/internal/config"
	proxyerrors "github.com/poemonsense/antigravity-proxy-go/internal/errors"
	"github.com/poemonsense/antigravity-proxy-go/internal/format"
	"github.com/poemonsense/antigravity-proxy-go/internal/utils"
	"github.com/poemonsense/antigravity-proxy-go/pkg/anthropic"
)

// ChatCompletionsHandler handles the /v1/chat/completions endpoint
type ChatCompletionsHandler struct {
	accountManager  *account.Manager
	cloudCodeClient *cloudcode.Client
	cfg             *config.Config
	fallbackEnabled bool
}

// NewChatCompletionsHandler creates a new ChatCompletionsHandler
func NewChatCompletionsHandler(
	accountManager *account.Manager,
	cloudCodeClient *cloudcode.Client,
	cfg *config.Config,
	fallbackEnabled bool,
) *ChatCompletionsHandler {
	return &ChatCompletionsHandler{
		accountManager:  accountManager,
		cloudCodeClient: cloudCodeClient,
		cfg:             cfg,
		fallbackEnabled: fallbackEnabled,
	}
}

// ChatCompletions handles POST /v1/chat/completions - OpenAI chat-completions compatible
func (h *ChatCompletionsHandler) ChatCompletions(c *gin.Context) {
	var req format.OpenAIChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendOpenAIError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}

	requestedModel := req.Model
	if requestedModel == "" {
		requestedModel = "claude-3-5-sonnet-20241022"
	}
	if h.cfg.ModelMapping != nil {
		if mapping, ok := h.cfg.ModelMapping[requestedModel]; ok && mapping != "" {
			requestedModel = mapping
		}
	}
	req.Model = requestedModel

	if len(req.Messages) == 0 {
		sendOpenAIError(c, http.StatusBadRequest, "invalid_request_error", "messages is required and must be an array")
		return
	}

	anthropicReq := format.ConvertOpenAIToAnthropic(&req)

	utils.Info("[API] chat.completions request for model: %s, stream: %t", anthropicReq.Model, anthropicReq.Stream)

	if anthropicReq.Stream {
		h.handleStreamingResponse(c, anthropicReq)
	} else {
		h.handleNonStreamingResponse(c, anthropicReq)
	}
}

func (h *ChatCompletionsHandler) handleNonStreamingResponse(c *gin.Context, req *anthropic.MessagesRequest) {
	ctx := c.Request.Context()

	response, err := h.cloudCodeClient.SendMessage(ctx, req, h.fallbackEnabled)
	if err != nil {
		utils.Error("[API] chat.completions error: %v", err)
		errorType, statusCode, errorMessage := parseError(err)
		sendOpenAIError(c, statusCode, errorType, errorMessage)
		return
	}

	c.JSON(http.StatusOK, format.ConvertAnthropicToOpenAI(response, time.Now().Unix()))
}

func (h *ChatCompletionsHandler) handleStreamingResponse(c *gin.Context, req *anthropic.MessagesRequest) {
	ctx := c.Request.Context()

	events, errs := h.cloudCodeClient.SendMessageStream(ctx, req, h.fallbackEnabled)

	var firstEvent *cloudcode.SSEEvent
	var firstErr error

	select {
	case event, ok := <-events:
		if !ok {
			select {
			case err := <-errs:
				firstErr = err
			default:
				firstErr = proxyerrors.NewEmptyResponseError("No response received")
			}
		} else {
			firstEvent = event
		}
	case err := <-errs:
		firstErr = err
	}

	if firstErr != nil {
		utils.Error("[API] chat.completions initial stream error: %v", firstErr)
		errorType, statusCode, errorMessage := parseError(firstErr)
		sendOpenAIError(c, statusCode, errorType, errorMessage)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		sendOpenAIError(c, http.StatusInternalServerError, "api_error", "Streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	chunkID := "chatcmpl-" + generateHexSuffix(16)
	created := time.Now().Unix()

	writeChunk := func(event *cloudcode.SSEEvent) {
		chunks := format.ConvertSSEEventToOpenAIChunks(event.Type, event.Delta, event.ContentBlock, chunkID, req.Model, created)
		for _, chunk := range chunks {
			data, err := json.Marshal(chunk)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		}
		if len(chunks) > 0 {
			flusher.Flush()
		}
	}

	if firstEvent != nil {
		writeChunk(firstEvent)
	}

	for {
		select {
		case event, ok := <-events:
			if !ok {
				fmt.Fprint(c.Writer, "data: [DONE]\n\n")
				flusher.Flush()
				return
			}
			writeChunk(event)
		case err := <-errs:
			if err != nil {
				utils.Error("[API] chat.completions mid-stream error: %v", err)
			}
			fmt.Fprint(c.Writer, "data: [DONE]\n\n")
			flusher.Flush()
			return
		case <-ctx.Done():
			return
		}
	}
}

// sendOpenAIError writes an OpenAI-shaped error response
func sendOpenAIError(c *gin.Context, statusCode int, errorType, message string) {
	c.JSON(statusCode, gin.H{
		"error": gin.H{
			"message": message,
			"type":    errorType,
		},
	})
}

// generateHexSuffix generates a random hex ID using crypto/rand
func generateHexSuffix(length int) string {
	bytes := make([]byte, length)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
