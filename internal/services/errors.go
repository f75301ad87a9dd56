package services

import "errors"

// Failure taxonomy for the orchestration core. InvalidInput surfaces to the
// caller; everything else is absorbed at the agent boundary and converted to
// an empty result, which the orchestrator turns into a fallback substitution.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnavailable       = errors.New("llm backend unavailable")
	ErrMalformedResponse = errors.New("malformed backend response")
	ErrNoJSONFound       = errors.New("no json found in response")
	ErrShapeMismatch     = errors.New("response shape mismatch")
	ErrUpstreamEmpty     = errors.New("upstream agent produced empty result")
)
