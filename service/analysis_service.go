package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"aijustice-backend/gateway"
	"aijustice-backend/models"
	"aijustice-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// AnalysisService turns raw document or judgment text into one validated
// structured result. Both operations are stateless one-shot calls; they
// share nothing but the configured gateway.
type AnalysisService struct {
	gateway      gateway.Gateway
	analysisRepo *repository.AnalysisRepository
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithGateway sets the generative-language gateway
func AnalysisWithGateway(gw gateway.Gateway) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.gateway = gw
	}
}

// AnalysisWithRepository sets the analysis record repository
func AnalysisWithRepository(repo *repository.AnalysisRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analysisRepo = repo
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const caseAnalysisPrompt = `Analyze the following case document from the Indian legal context and provide a detailed analysis.

Case Document:
---
%s
---

Provide your analysis in the specified JSON format.`

const biasAnalysisPrompt = `Analyze the following legal judgment text for potential signs of bias (e.g., related to gender, caste, religion, or other protected characteristics under Indian law). Flag specific phrases and provide an overall analysis.

Judgment Text:
---
%s
---

Provide your analysis in the specified JSON format.`

// caseAnalysisSchema constrains structured output for case analysis. The
// gateway enforces the shape during generation; the service re-validates
// after parse anyway since a different provider may not.
var caseAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "A concise summary of the case document provided.",
		},
		"relevant_sections": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "A list of relevant Indian Penal Code (IPC) sections or other applicable laws.",
		},
		"predicted_outcome": {
			Type:        genai.TypeString,
			Description: `The most likely outcome of the case (e.g., "Acquittal", "Conviction", "Settlement").`,
		},
		"confidence_score": {
			Type:        genai.TypeNumber,
			Description: "A confidence score for the prediction, from 0.0 to 1.0.",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "A detailed explanation for the predicted outcome, citing precedents if possible.",
		},
	},
	Required: []string{"summary", "relevant_sections", "predicted_outcome", "confidence_score", "reasoning"},
}

var biasAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"bias_found": {
			Type:        genai.TypeBoolean,
			Description: "Whether any potential bias was detected.",
		},
		"score": {
			Type:        genai.TypeNumber,
			Description: "A bias score from 0 (no bias) to 10 (strong bias).",
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "A detailed explanation of the findings, describing the nature of any detected bias.",
		},
		"flagged_phrases": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "A list of specific quotes or phrases from the text that indicate potential bias.",
		},
	},
	Required: []string{"bias_found", "score", "explanation", "flagged_phrases"},
}

// AnalyzeCaseRequest represents a request to analyze a case document
type AnalyzeCaseRequest struct {
	Text string
}

// AnalyzeCaseResult represents the result of analyzing a case document
type AnalyzeCaseResult struct {
	Analysis *models.Analysis
}

// AnalyzeCase embeds the document text into the fixed case-analysis
// instruction template, requests structured JSON output, and parses the
// response into a validated CaseAnalysisResult. No retry, no caching.
func (s *AnalysisService) AnalyzeCase(ctx context.Context, req AnalyzeCaseRequest) (*AnalyzeCaseResult, error) {
	if s.gateway == nil {
		return nil, errors.New("gateway not set")
	}
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	raw, err := s.gateway.GenerateJSON(ctx, fmt.Sprintf(caseAnalysisPrompt, text), caseAnalysisSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	var result models.CaseAnalysisResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	analysis := &models.Analysis{
		Kind:       models.AnalysisKindCase,
		CaseResult: &result,
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, err
	}

	return &AnalyzeCaseResult{Analysis: analysis}, nil
}

// DetectBiasRequest represents a request to scan judgment text for bias
type DetectBiasRequest struct {
	Text string
}

// DetectBiasResult represents the result of a bias detection pass
type DetectBiasResult struct {
	Analysis *models.Analysis
}

// DetectBias has the same contract shape as AnalyzeCase with the bias
// template and schema.
func (s *AnalysisService) DetectBias(ctx context.Context, req DetectBiasRequest) (*DetectBiasResult, error) {
	if s.gateway == nil {
		return nil, errors.New("gateway not set")
	}
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	raw, err := s.gateway.GenerateJSON(ctx, fmt.Sprintf(biasAnalysisPrompt, text), biasAnalysisSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	var result models.BiasAnalysisResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	analysis := &models.Analysis{
		Kind:       models.AnalysisKindBias,
		BiasResult: &result,
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, err
	}

	return &DetectBiasResult{Analysis: analysis}, nil
}

// GetAnalysisRequest represents a request to fetch a stored analysis record
type GetAnalysisRequest struct {
	ID uuid.UUID
}

// GetAnalysisResult represents the result of fetching an analysis record
type GetAnalysisResult struct {
	Analysis *models.Analysis
}

// GetAnalysis retrieves a previously completed analysis by ID.
func (s *AnalysisService) GetAnalysis(ctx context.Context, req GetAnalysisRequest) (*GetAnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	analysis, err := s.analysisRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}

	return &GetAnalysisResult{Analysis: analysis}, nil
}

// ListAnalysesResult represents the result of listing analysis records
type ListAnalysesResult struct {
	Analyses []*models.Analysis
}

// ListAnalyses lists all analysis records completed by this process.
func (s *AnalysisService) ListAnalyses(ctx context.Context) (*ListAnalysesResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	analyses, err := s.analysisRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &ListAnalysesResult{Analyses: analyses}, nil
}

// decodeResult parses the gateway's response text as a single strict JSON
// object into out. Leading and trailing whitespace is trimmed first.
func decodeResult(raw string, out any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("%w: empty response text", ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}

	return nil
}
