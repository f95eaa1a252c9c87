package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schoolatlas/schoolatlas-backend/internal/modules/aggregation"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/aggregation/steps"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/openai"
)

// narrativeAI adapts the OpenAI client to the aggregation summarizer
// contract: prompt rendering, fence normalization, and strict response
// parsing all live here so the aggregation logic never sees raw model
// output.
type narrativeAI struct {
	log *logger.Logger
	ai  openai.Client
}

func NewNarrativeAI(log *logger.Logger, ai openai.Client, model string, maxTokens int) aggregation.Summarizer {
	return &narrativeAI{
		log: log.With("service", "NarrativeAI"),
		ai:  openai.WithMaxOutputTokens(openai.WithModel(ai, model), maxTokens),
	}
}

func (s *narrativeAI) Summarize(ctx context.Context, in aggregation.SummarizeInput) (*aggregation.Narrative, error) {
	user := steps.BuildNarrativeUserPrompt(steps.NarrativeInput{
		SchoolName:      in.SchoolName,
		BaselineSummary: in.BaselineSummary,
		BaselinePros:    in.BaselinePros,
		BaselineCons:    in.BaselineCons,
		Transcript:      in.Transcript,
	})

	raw, err := s.ai.GenerateText(ctx, steps.NarrativeSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("narrative generation: %w", err)
	}

	narrative, err := parseNarrative(raw)
	if err != nil {
		s.log.Warn("Narrative response unparseable; discarding",
			"school", in.SchoolName, "error", err)
		return nil, err
	}
	return narrative, nil
}

// parseNarrative decodes the model's JSON strictly. Anything other than an
// object with the three known string fields is rejected whole; a malformed
// response must never partially overwrite stored text.
func parseNarrative(raw string) (*aggregation.Narrative, error) {
	cleaned := openai.StripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty narrative response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.DisallowUnknownFields()

	var narrative aggregation.Narrative
	if err := dec.Decode(&narrative); err != nil {
		return nil, fmt.Errorf("parse narrative JSON: %w; text=%s", err, truncate(cleaned, 500))
	}
	// Trailing content after the object means the model kept talking.
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing content in narrative response")
	}
	return &narrative, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
