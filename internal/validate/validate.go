package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"signal-scanner/models"
)

const (
	adjustmentFloor    = -20
	adjustmentCeil     = 20
	maxPromptReasoning = 10
)

// Config tunes the pre-persistence signal review.
type Config struct {
	Enabled bool
	APIKey  string
	Model   string
}

// Validator asks an LLM to second-guess a signal before it is saved. A
// disabled validator returns nil verdicts so the pipeline proceeds as-is.
type Validator struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

var _ models.SignalValidator = (*Validator)(nil)

// New creates a validator. Disabled or keyless configs yield a no-op
// instance rather than an error: the scan loop must never depend on the
// review being available.
func New(cfg Config) *Validator {
	v := &Validator{
		model:  cfg.Model,
		logger: log.With().Str("component", "validator").Logger(),
	}
	if v.model == "" {
		v.model = openai.GPT4
	}
	if cfg.Enabled && cfg.APIKey != "" {
		v.client = openai.NewClient(cfg.APIKey)
	}
	return v
}

// Enabled reports whether the validator will actually call out.
func (v *Validator) Enabled() bool {
	return v != nil && v.client != nil
}

// Validate reviews one signal. A nil verdict with a nil error means the
// review was unavailable; callers proceed with the signal unvalidated.
func (v *Validator) Validate(ctx context.Context, sig *models.Signal) (*models.SignalValidation, error) {
	if !v.Enabled() {
		return nil, nil
	}

	v.logger.Debug().Str("instrument", sig.Instrument).Msg("Sending signal for validation")

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(sig),
			},
		},
	})
	if err != nil {
		v.logger.Error().Err(err).Str("instrument", sig.Instrument).Msg("Validation request failed")
		return nil, err
	}
	if len(resp.Choices) == 0 {
		v.logger.Warn().Str("instrument", sig.Instrument).Msg("Validator returned empty choices")
		return nil, nil
	}

	verdict, err := ParseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		v.logger.Error().Err(err).Str("instrument", sig.Instrument).Msg("Failed to parse validation response")
		return nil, err
	}
	return verdict, nil
}

// BuildPrompt lays out the signal, its audit trail and the review rules.
func BuildPrompt(sig *models.Signal) string {
	var sb strings.Builder
	sb.WriteString("You are an expert trading signal validator. Analyze this trading signal and provide validation.\n")

	sb.WriteString("\n=== SIGNAL DETAILS ===\n")
	fmt.Fprintf(&sb, "Symbol: %s\n", sig.Instrument)
	fmt.Fprintf(&sb, "Direction: %s\n", strings.ToUpper(string(sig.Direction)))
	fmt.Fprintf(&sb, "Entry Type: %s\n", sig.EntryType)
	fmt.Fprintf(&sb, "Timeframes: %s / %s / %s\n", sig.Timeframes.Context, sig.Timeframes.Entry, sig.Timeframes.Refine)
	fmt.Fprintf(&sb, "Entry Price: %.5f\n", sig.EntryPrice)
	fmt.Fprintf(&sb, "Stop Loss: %.5f\n", sig.StopLoss)
	fmt.Fprintf(&sb, "Take Profit: %.5f\n", sig.TakeProfit)
	fmt.Fprintf(&sb, "Risk:Reward: 1:%.2f\n", sig.RiskRewardRatio)
	fmt.Fprintf(&sb, "Current Confidence: %d%%\n", sig.Confidence)

	sb.WriteString("\n=== CONFIRMATIONS ===\n")
	for _, c := range sig.Confirmations {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	sb.WriteString("\n=== ANALYSIS REASONING ===\n")
	reasoning := sig.Reasoning
	if len(reasoning) > maxPromptReasoning {
		reasoning = reasoning[:maxPromptReasoning]
	}
	for _, r := range reasoning {
		fmt.Fprintf(&sb, "- %s\n", r)
	}

	sb.WriteString(`
=== VALIDATION RULES ===
1. NEVER trade against the higher timeframe trend unless there's a confirmed change of character
2. Skip signals in unclear/choppy markets
3. Verify the zone is valid and unmitigated
4. Check if entry timing makes sense
5. Assess if the risk:reward is realistic given market structure

Respond in this exact JSON format:
{
    "validated": true/false,
    "confidence_adjustment": -20 to +20,
    "concerns": ["list of concerns if any"],
    "strengths": ["list of strengths"],
    "recommendation": "proceed" | "caution" | "skip",
    "reasoning": "brief explanation"
}

Only respond with the JSON, no other text.`)

	return sb.String()
}

// ParseVerdict decodes the model's JSON reply, tolerating a markdown code
// fence around it. The confidence adjustment is clamped to [-20, 20] and a
// missing recommendation degrades to caution.
func ParseVerdict(text string) (*models.SignalValidation, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimSpace(text)
	}

	var verdict models.SignalValidation
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return nil, fmt.Errorf("decoding validation response: %w", err)
	}

	if verdict.Recommendation == "" {
		verdict.Recommendation = models.RecommendationCaution
	}
	if verdict.ConfidenceAdjustment < adjustmentFloor {
		verdict.ConfidenceAdjustment = adjustmentFloor
	}
	if verdict.ConfidenceAdjustment > adjustmentCeil {
		verdict.ConfidenceAdjustment = adjustmentCeil
	}
	return &verdict, nil
}
