package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
)

const assistantHistoryWindow = 20

// CompletionClient produces an assistant reply for a prompt.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type assistantNotifier interface {
	SendToUser(userID int64, message *models.AssistantMessage)
}

type AssistantService struct {
	assistantRepo *repository.AssistantRepository
	client        CompletionClient
	notifier      assistantNotifier
	log           zerolog.Logger
}

func NewAssistantService(
	assistantRepo *repository.AssistantRepository,
	client CompletionClient,
	notifier assistantNotifier,
	log zerolog.Logger,
) *AssistantService {
	return &AssistantService{
		assistantRepo: assistantRepo,
		client:        client,
		notifier:      notifier,
		log:           log,
	}
}

type AssistantExchange struct {
	UserMessage      *models.AssistantMessage `json:"user_message"`
	AssistantMessage *models.AssistantMessage `json:"assistant_message"`
}

func (s *AssistantService) SendMessage(
	ctx context.Context,
	userID int64,
	content string,
) (*AssistantExchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Field: "content", Message: "is required"}
	}
	if len(content) > maxDescriptionLength {
		return nil, &ValidationError{Field: "content", Message: "must be at most 2000 characters"}
	}

	conversation, err := s.assistantRepo.CreateOrGetConversation(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.assistantRepo.ListRecentMessages(ctx, conversation.ID, assistantHistoryWindow)
	if err != nil {
		return nil, err
	}

	userMessage, err := s.assistantRepo.CreateMessage(
		ctx,
		conversation.ID,
		models.AssistantSenderUser,
		content,
	)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.Complete(ctx, buildPrompt(history, content))
	if err != nil {
		s.log.Error().Err(err).Int64("conversation_id", conversation.ID).Msg("assistant completion failed")
		return nil, err
	}

	assistantMessage, err := s.assistantRepo.CreateMessage(
		ctx,
		conversation.ID,
		models.AssistantSenderAssistant,
		reply,
	)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SendToUser(userID, assistantMessage)
	}

	return &AssistantExchange{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	}, nil
}

func (s *AssistantService) GetConversation(
	ctx context.Context,
	userID int64,
	limit int,
) (*models.AssistantConversation, []models.AssistantMessage, error) {
	conversation, err := s.assistantRepo.CreateOrGetConversation(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.assistantRepo.ListRecentMessages(ctx, conversation.ID, limit)
	if err != nil {
		return nil, nil, err
	}

	return conversation, messages, nil
}

func buildPrompt(history []models.AssistantMessage, latest string) string {
	var builder strings.Builder
	builder.WriteString("You are the MentorVerse study assistant. Answer the mentee's question concisely.\n\n")
	for _, message := range history {
		builder.WriteString(message.Sender)
		builder.WriteString(": ")
		builder.WriteString(message.Content)
		builder.WriteString("\n")
	}
	builder.WriteString("user: ")
	builder.WriteString(latest)
	return builder.String()
}

// HTTPCompletionClient talks to the outbound completion API.
type HTTPCompletionClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHTTPCompletionClient(baseURL, apiKey, model string) *HTTPCompletionClient {
	return &HTTPCompletionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: http.DefaultClient,
	}
}

func (c *HTTPCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"model":  c.model,
		"prompt": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/completions",
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("request completion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if strings.TrimSpace(decoded.Reply) == "" {
		return "", fmt.Errorf("completion response contained no reply")
	}

	return decoded.Reply, nil
}
