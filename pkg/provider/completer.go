package provider

import (
	"context"
	"errors"
	"iter"
	"strings"
)

type Completer interface {
	Complete(ctx context.Context, messages []Message, options *CompleteOptions) iter.Seq2[*Completion, error]
}

var (
	ErrEmptyCompletion = errors.New("empty completion")
)

type Message struct {
	Role MessageRole

	Content []Content
}

func SystemMessage(content string) Message {
	return Message{
		Role: MessageRoleSystem,

		Content: []Content{
			{
				Text: content,
			},
		},
	}
}

func UserMessage(content string) Message {
	return Message{
		Role: MessageRoleUser,

		Content: []Content{
			{
				Text: content,
			},
		},
	}
}

func AssistantMessage(content string) Message {
	return Message{
		Role: MessageRoleAssistant,

		Content: []Content{
			{
				Text: content,
			},
		},
	}
}

func (m Message) Text() string {
	var parts []string

	for _, c := range m.Content {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}

	return strings.Join(parts, "\n\n")
}

type Content struct {
	Text string
}

func TextContent(val string) Content {
	return Content{
		Text: val,
	}
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type CompleteOptions struct {
	MaxTokens   *int
	Temperature *float32

	Schema *Schema
}

type Completion struct {
	ID    string
	Model string

	Reason CompletionReason

	Message *Message

	Usage *Usage
}

type CompletionReason string

const (
	CompletionReasonStop   CompletionReason = "stop"
	CompletionReasonLength CompletionReason = "length"
	CompletionReasonFilter CompletionReason = "filter"
)

type CompletionAccumulator struct {
	id    string
	model string

	reason CompletionReason

	role    MessageRole
	content strings.Builder

	usage *Usage
}

func (a *CompletionAccumulator) Add(c Completion) {
	if c.ID != "" {
		a.id = c.ID
	}

	if c.Model != "" {
		a.model = c.Model
	}

	if c.Reason != "" {
		a.reason = c.Reason
	}

	if c.Message != nil {
		if c.Message.Role != "" {
			a.role = c.Message.Role
		}

		for _, c := range c.Message.Content {
			if c.Text != "" {
				a.content.WriteString(c.Text)
			}
		}
	}

	if c.Usage != nil {
		if a.usage == nil {
			a.usage = &Usage{}
		}

		a.usage.InputTokens += c.Usage.InputTokens
		a.usage.OutputTokens += c.Usage.OutputTokens
	}
}

func (a *CompletionAccumulator) Result() *Completion {
	var content []Content

	if a.content.Len() > 0 {
		content = append(content, TextContent(a.content.String()))
	}

	role := a.role

	if role == "" {
		role = MessageRoleAssistant
	}

	return &Completion{
		ID:    a.id,
		Model: a.model,

		Reason: a.reason,

		Message: &Message{
			Role:    role,
			Content: content,
		},

		Usage: a.usage,
	}
}

// Collect drains a completion sequence into a single completion. The first
// error stops the iteration and is returned as is.
func Collect(seq iter.Seq2[*Completion, error]) (*Completion, error) {
	var result CompletionAccumulator
	var count int

	for completion, err := range seq {
		if err != nil {
			return nil, err
		}

		if completion == nil {
			continue
		}

		result.Add(*completion)
		count++
	}

	if count == 0 {
		return nil, ErrEmptyCompletion
	}

	return result.Result(), nil
}
