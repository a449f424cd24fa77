package utils

import (
	"academy/config"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const groqApiURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqClient calls the Groq chat-completions API. Used by the AI tutor,
// the instructor course assistant and the weekly newsletter generator.
type GroqClient struct {
	apiKey string
	model  string
	client *resty.Client
}

func NewGroqClient() *GroqClient {
	return &GroqClient{
		apiKey: config.AppConfig.GroqApiKey,
		model:  config.AppConfig.GroqModel,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SendMessage runs one system+user exchange and returns the model's reply.
// Callers decide whether to degrade gracefully or propagate the error.
func (g *GroqClient) SendMessage(systemPrompt, userPrompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("groq api key is not configured")
	}

	payload := map[string]interface{}{
		"model": g.model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	resp, err := g.client.R().
		SetHeader("Authorization", "Bearer "+g.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(groqApiURL)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("groq error %d: %s", resp.StatusCode(), resp.String())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("invalid groq response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
