// Package shared holds types passed between the llm, planner and metrics packages.
package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Generation outcomes recorded for every meal plan request.
const (
	OutcomeSuccess         = "success"
	OutcomeMock            = "mock"
	OutcomeGenerationError = "generation_error"
	OutcomeParseError      = "parse_error"
)

// AgentMeta holds operational metadata for one generation.
type AgentMeta struct {
	AgentName string
	Outcome   string
	Usage     TokenUsage
	Latency   time.Duration
}
