package mcp

import (
	"errors"

	"github.com/beamkit/beam"
	"github.com/beamkit/beam/policy"
)

// errorObject maps a typed error from the registries or the policy pipeline
// onto the protocol's error envelope. Every error class keeps its own code;
// anything unclassified is an internal error. Nothing is swallowed.
func errorObject(err error) *ErrorObject {
	var (
		eo  *ErrorObject
		ve  *policy.ValidationError
		rle *policy.RateLimitError
		te  *policy.TimeoutError
		re  *policy.RetryError
	)
	switch {
	case errors.As(err, &eo):
		return eo
	case errors.Is(err, beam.ErrUnknownTool):
		return &ErrorObject{Code: codeUnknownTool, Message: err.Error()}
	case errors.Is(err, beam.ErrUnknownResource), errors.Is(err, beam.ErrUnknownPrompt):
		return &ErrorObject{Code: codeUnknownResource, Message: err.Error()}
	case errors.As(err, &ve):
		return &ErrorObject{
			Code:    codeInvalidParams,
			Message: ve.Error(),
			Data:    map[string]any{"field": ve.Field, "constraint": ve.Constraint},
		}
	case errors.As(err, &rle):
		return &ErrorObject{
			Code:    codeRateLimited,
			Message: rle.Error(),
			Data:    map[string]any{"maxCalls": rle.MaxCalls, "window": rle.Window.String()},
		}
	case errors.As(err, &te):
		return &ErrorObject{
			Code:    codeTimeout,
			Message: te.Error(),
			Data:    map[string]any{"limit": te.Limit.String()},
		}
	case errors.As(err, &re):
		return &ErrorObject{
			Code:    codeRetriesExhausted,
			Message: re.Error(),
			Data:    map[string]any{"attempts": re.Attempts},
		}
	default:
		return &ErrorObject{Code: codeInternalError, Message: err.Error()}
	}
}
