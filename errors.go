package beam

import "errors"

// Sentinel errors returned by the registries.
var (
	ErrUnknownTool     = errors.New("beam: unknown tool")
	ErrUnknownResource = errors.New("beam: unknown resource")
	ErrUnknownPrompt   = errors.New("beam: unknown prompt")
	ErrDuplicateTool   = errors.New("beam: tool already registered")
	ErrDuplicatePrompt = errors.New("beam: prompt already registered")
)
