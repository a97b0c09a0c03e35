package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/llm"
	"meal-planner/internal/logger"
	"meal-planner/internal/shared"
)

const agentName = "MealPlanner"

// ExecutionRecorder receives metadata about every Generate call.
type ExecutionRecorder interface {
	RecordExecution(meta shared.AgentMeta)
}

// Planner turns a user profile into a daily meal plan. It holds no state
// between calls.
type Planner struct {
	textGen  llm.TextGenerator
	recorder ExecutionRecorder
	log      *zap.Logger
	useMock  bool
}

// NewPlanner creates a new Planner instance. With useMock set, or a nil
// textGen, plans come from MockMealPlan and no remote call is made. recorder
// and log may be nil.
func NewPlanner(textGen llm.TextGenerator, recorder ExecutionRecorder, log *zap.Logger, useMock bool) *Planner {
	return &Planner{
		textGen:  textGen,
		recorder: recorder,
		log:      logger.OrNop(log),
		useMock:  useMock || textGen == nil,
	}
}

// Generate creates a meal plan for the profile. Remote failures return an
// *Error whose Kind is ErrGeneration; unusable responses return one whose Kind
// is ErrParse. An invalid profile fails with ErrInvalidProfile before any call.
func (p *Planner) Generate(ctx context.Context, profile UserProfile) (*MealPlan, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	meta := shared.AgentMeta{AgentName: agentName}

	if p.useMock {
		p.log.Info("Using mock data instead of API")
		plan := MockMealPlan(profile)
		meta.Outcome = shared.OutcomeMock
		p.record(meta, start)
		return plan, nil
	}

	prompt, err := BuildPrompt(profile)
	if err != nil {
		meta.Outcome = shared.OutcomeGenerationError
		p.record(meta, start)
		p.log.Error("Failed to build meal plan prompt", zap.Error(err))
		return nil, &Error{Kind: ErrGeneration, Cause: fmt.Errorf("failed to build prompt: %w", err)}
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	meta.Usage = resp.Usage
	if err != nil {
		meta.Outcome = shared.OutcomeGenerationError
		p.record(meta, start)
		p.log.Error("Failed to generate meal plan", zap.Error(err))
		return nil, &Error{Kind: ErrGeneration, Cause: err}
	}

	parsed, err := parseMealPlan(resp.Content)
	if err != nil {
		meta.Outcome = shared.OutcomeParseError
		p.record(meta, start)
		p.log.Error("Failed to parse meal plan response",
			zap.Error(err),
			zap.String("response", resp.Content),
		)
		return nil, &Error{Kind: ErrParse, Cause: err}
	}

	plan := parsed.Plan
	for _, slot := range parsed.EmptyItems {
		p.log.Warn("Meal has no items", zap.String("slot", slot))
	}
	if parsed.ReportedTotal != nil && math.Abs(*parsed.ReportedTotal-plan.TotalCalories) > 1 {
		p.log.Warn("Model total calories disagree with meal sum, using meal sum",
			zap.Float64("reported", *parsed.ReportedTotal),
			zap.Float64("computed", plan.TotalCalories),
		)
	}
	plan.ID = NewPlanID()
	plan.Date = Timestamp(time.Now())

	meta.Outcome = shared.OutcomeSuccess
	p.record(meta, start)
	p.log.Debug("Generated meal plan",
		zap.String("id", plan.ID),
		zap.Float64("total_calories", plan.TotalCalories),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return &plan, nil
}

func (p *Planner) record(meta shared.AgentMeta, start time.Time) {
	if p.recorder == nil {
		return
	}
	meta.Latency = time.Since(start)
	p.recorder.RecordExecution(meta)
}
