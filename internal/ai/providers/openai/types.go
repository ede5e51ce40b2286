package openai

import (
	"time"

	openaisdk "github.com/openai/openai-go"

	"github.com/yildizm/QRStudio/internal/ai"
)

// buildMessages orders the system prompt, optional context and prompt
func buildMessages(systemPrompt, prompt, context string) []openaisdk.ChatCompletionMessageParamUnion {
	var messages []openaisdk.ChatCompletionMessageParamUnion

	if systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	}
	if context != "" {
		messages = append(messages, openaisdk.UserMessage("Context: "+context))
	}

	return append(messages, openaisdk.UserMessage(prompt))
}

func toAIResponse(c *openaisdk.ChatCompletion, requestID string) *ai.CompletionResponse {
	response := &ai.CompletionResponse{
		RequestID: requestID,
		Model:     c.Model,
		CreatedAt: time.Unix(c.Created, 0),
		Usage: &ai.TokenUsage{
			PromptTokens:     int(c.Usage.PromptTokens),
			CompletionTokens: int(c.Usage.CompletionTokens),
			TotalTokens:      int(c.Usage.TotalTokens),
		},
	}

	if len(c.Choices) > 0 {
		choice := c.Choices[0]
		response.Content = choice.Message.Content
		response.FinishReason = string(choice.FinishReason)
	}

	return response
}
