package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisKind selects which structured analysis a request produced.
type AnalysisKind string

const (
	AnalysisKindCase AnalysisKind = "case"
	AnalysisKindBias AnalysisKind = "bias"
)

// CaseAnalysisResult is the structured outcome of a case document
// analysis. Immutable once returned.
type CaseAnalysisResult struct {
	Summary          string   `json:"summary"`
	RelevantSections []string `json:"relevant_sections"`
	PredictedOutcome string   `json:"predicted_outcome"`
	ConfidenceScore  float64  `json:"confidence_score"`
	Reasoning        string   `json:"reasoning"`
}

// Validate checks the fields the output schema marks required. The model
// is asked for a confidence score in [0.0, 1.0]; a value outside that
// range is treated as a malformed response rather than clamped.
func (r *CaseAnalysisResult) Validate() error {
	var errs []error
	if r.Summary == "" {
		errs = append(errs, errors.New("summary is empty"))
	}
	if r.PredictedOutcome == "" {
		errs = append(errs, errors.New("predicted_outcome is empty"))
	}
	if r.Reasoning == "" {
		errs = append(errs, errors.New("reasoning is empty"))
	}
	if r.ConfidenceScore < 0.0 || r.ConfidenceScore > 1.0 {
		errs = append(errs, fmt.Errorf("confidence_score %v outside [0.0, 1.0]", r.ConfidenceScore))
	}
	if r.RelevantSections == nil {
		r.RelevantSections = []string{}
	}
	return errors.Join(errs...)
}

// BiasAnalysisResult is the structured outcome of a bias detection pass
// over a judgment text.
type BiasAnalysisResult struct {
	BiasFound      bool     `json:"bias_found"`
	Score          float64  `json:"score"`
	Explanation    string   `json:"explanation"`
	FlaggedPhrases []string `json:"flagged_phrases"`
}

// Validate checks the required fields. Score is prompted on a 0 (no bias)
// to 10 (strong bias) scale; out-of-range values are rejected.
func (r *BiasAnalysisResult) Validate() error {
	var errs []error
	if r.Explanation == "" {
		errs = append(errs, errors.New("explanation is empty"))
	}
	if r.Score < 0 || r.Score > 10 {
		errs = append(errs, fmt.Errorf("score %v outside [0, 10]", r.Score))
	}
	if r.FlaggedPhrases == nil {
		r.FlaggedPhrases = []string{}
	}
	return errors.Join(errs...)
}

// Analysis is the record of one completed analysis request. The raw input
// text is ephemeral and not kept; records live in memory only.
type Analysis struct {
	ID         uuid.UUID           `json:"id"`
	Kind       AnalysisKind        `json:"kind"`
	CaseResult *CaseAnalysisResult `json:"case_result,omitempty"`
	BiasResult *BiasAnalysisResult `json:"bias_result,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}
