package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

const sentimentPrompt = `You are a sentiment classifier for product and service reviews in Russian and English.
Classify the sentiment of the user message and respond with a JSON object of exactly three keys:
{"negative": <probability>, "neutral": <probability>, "positive": <probability>}
The three probabilities must be non-negative and sum to 1. Respond with JSON only.`

// OpenAIModel classifies sentiment through an OpenAI-compatible chat
// completion endpoint. It is an alternative Model provider for deployments
// without a dedicated inference server.
type OpenAIModel struct {
	client *openai.Client
	model  string
	logger *zerolog.Logger
}

func NewOpenAIModel(apiKey, model string, logger *zerolog.Logger) *OpenAIModel {
	return &OpenAIModel{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

func (m *OpenAIModel) Predict(ctx context.Context, text string) (Scores, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return Scores{}, fmt.Errorf("%w: %s", ErrModelInference, err)
	}

	if len(resp.Choices) == 0 {
		return Scores{}, fmt.Errorf("%w: empty completion", ErrModelInference)
	}

	var scores Scores
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &scores); err != nil {
		return Scores{}, fmt.Errorf("%w: decode completion: %s", ErrModelInference, err)
	}

	if scores.Negative < 0 || scores.Neutral < 0 || scores.Positive < 0 {
		return Scores{}, fmt.Errorf("%w: negative probability in completion", ErrModelInference)
	}

	total := scores.Negative + scores.Neutral + scores.Positive
	if total <= 0 {
		return Scores{}, fmt.Errorf("%w: zero probability mass in completion", ErrModelInference)
	}

	// The completion is asked to sum to 1 but is normalized anyway.
	scores.Negative /= total
	scores.Neutral /= total
	scores.Positive /= total

	return scores, nil
}
