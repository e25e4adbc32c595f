package openai

import (
	"errors"
	"strings"

	"github.com/scansoal/scansoal/pkg/provider"

	"github.com/openai/openai-go/v3"
)

func convertError(err error) error {
	var apierr *openai.Error

	if errors.As(err, &apierr) {
		return &provider.Error{
			Provider:   "openai",
			StatusCode: apierr.StatusCode,

			Err: err,
		}
	}

	return err
}

// reasoning models take developer messages and max_completion_tokens and
// reject a custom temperature
var reasoningPrefixes = []string{
	"gpt-5",
	"o1",
	"o3",
	"o4",
}

func isReasoningModel(model string) bool {
	model = strings.ToLower(model)

	if strings.HasPrefix(model, "gpt-5") && strings.Contains(model, "chat") {
		return false
	}

	for _, prefix := range reasoningPrefixes {
		if model == prefix || strings.HasPrefix(model, prefix+"-") || strings.HasPrefix(model, prefix+".") {
			return true
		}
	}

	return false
}
