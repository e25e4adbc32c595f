package anthropic

import (
	"errors"

	"github.com/scansoal/scansoal/pkg/provider"

	"github.com/anthropics/anthropic-sdk-go"
)

func convertError(err error) error {
	var apierr *anthropic.Error

	if errors.As(err, &apierr) {
		return &provider.Error{
			Provider:   "anthropic",
			StatusCode: apierr.StatusCode,

			Err: err,
		}
	}

	return err
}
