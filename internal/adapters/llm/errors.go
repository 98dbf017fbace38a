package llm

import "errors"

// Sentinel kinds for generative calls. Callers branch on these: a
// timeout is user-presentable differently from a generic upstream
// failure, and neither is retried.
var (
	ErrTimeout  = errors.New("llm request timed out")
	ErrUpstream = errors.New("llm upstream error")
	ErrNoAPIKey = errors.New("llm api key missing")
)
