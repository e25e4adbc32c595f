package openai

import (
	"context"
	"iter"

	"github.com/scansoal/scansoal/pkg/provider"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	completions openai.ChatCompletionService
}

func NewCompleter(url, model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config:      cfg,
		completions: openai.NewChatCompletionService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		if options == nil {
			options = new(provider.CompleteOptions)
		}

		req := c.convertCompletionRequest(messages, options)

		completion, err := c.completions.New(ctx, *req)

		if err != nil {
			yield(nil, convertError(err))
			return
		}

		if len(completion.Choices) == 0 {
			yield(nil, provider.ErrEmptyCompletion)
			return
		}

		choice := completion.Choices[0]

		result := &provider.Completion{
			ID:    completion.ID,
			Model: completion.Model,

			Reason: provider.CompletionReasonStop,

			Message: &provider.Message{
				Role: provider.MessageRoleAssistant,
			},

			Usage: toUsage(completion.Usage),
		}

		if val := toCompletionReason(choice.FinishReason); val != "" {
			result.Reason = val
		}

		if choice.Message.Content != "" {
			result.Message.Content = append(result.Message.Content, provider.TextContent(choice.Message.Content))
		}

		yield(result, nil)
	}
}

func (c *Completer) convertCompletionRequest(input []provider.Message, options *provider.CompleteOptions) *openai.ChatCompletionNewParams {
	req := &openai.ChatCompletionNewParams{
		Model: c.model,
	}

	isReasoning := isReasoningModel(c.model)

	for _, m := range input {
		text := m.Text()

		switch m.Role {
		case provider.MessageRoleSystem:
			if isReasoning {
				req.Messages = append(req.Messages, openai.DeveloperMessage(text))
			} else {
				req.Messages = append(req.Messages, openai.SystemMessage(text))
			}

		case provider.MessageRoleUser:
			req.Messages = append(req.Messages, openai.UserMessage(text))

		case provider.MessageRoleAssistant:
			req.Messages = append(req.Messages, openai.AssistantMessage(text))
		}
	}

	if options.Schema != nil {
		schema := shared.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   options.Schema.Name,
			Schema: options.Schema.Schema,
		}

		if options.Schema.Description != "" {
			schema.Description = openai.String(options.Schema.Description)
		}

		if options.Schema.Strict != nil {
			schema.Strict = openai.Bool(*options.Schema.Strict)
		}

		req.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: schema,
			},
		}
	}

	if options.MaxTokens != nil {
		if isReasoning {
			req.MaxCompletionTokens = openai.Int(int64(*options.MaxTokens))
		} else {
			req.MaxTokens = openai.Int(int64(*options.MaxTokens))
		}
	}

	if options.Temperature != nil && !isReasoning {
		req.Temperature = openai.Float(float64(*options.Temperature))
	}

	return req
}

func toCompletionReason(val string) provider.CompletionReason {
	switch val {
	case "stop":
		return provider.CompletionReasonStop

	case "length":
		return provider.CompletionReasonLength

	case "content_filter":
		return provider.CompletionReasonFilter

	default:
		return ""
	}
}

func toUsage(metadata openai.CompletionUsage) *provider.Usage {
	if metadata.TotalTokens == 0 {
		return nil
	}

	return &provider.Usage{
		InputTokens:  int(metadata.PromptTokens),
		OutputTokens: int(metadata.CompletionTokens),
	}
}
