package models

import "testing"

func TestCaseAnalysisResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  CaseAnalysisResult
		wantErr bool
	}{
		{
			name: "valid",
			result: CaseAnalysisResult{
				Summary:          "A land dispute between two parties.",
				RelevantSections: []string{"Section 420 IPC"},
				PredictedOutcome: "Favorable",
				ConfidenceScore:  0.85,
				Reasoning:        "Precedent supports the claimant.",
			},
		},
		{
			name: "empty summary",
			result: CaseAnalysisResult{
				PredictedOutcome: "Favorable",
				ConfidenceScore:  0.5,
				Reasoning:        "r",
			},
			wantErr: true,
		},
		{
			name: "empty predicted outcome",
			result: CaseAnalysisResult{
				Summary:         "s",
				ConfidenceScore: 0.5,
				Reasoning:       "r",
			},
			wantErr: true,
		},
		{
			name: "empty reasoning",
			result: CaseAnalysisResult{
				Summary:          "s",
				PredictedOutcome: "Favorable",
				ConfidenceScore:  0.5,
			},
			wantErr: true,
		},
		{
			name: "confidence above range",
			result: CaseAnalysisResult{
				Summary:          "s",
				PredictedOutcome: "Favorable",
				ConfidenceScore:  1.2,
				Reasoning:        "r",
			},
			wantErr: true,
		},
		{
			name: "confidence below range",
			result: CaseAnalysisResult{
				Summary:          "s",
				PredictedOutcome: "Favorable",
				ConfidenceScore:  -0.1,
				Reasoning:        "r",
			},
			wantErr: true,
		},
		{
			name: "boundary confidence values",
			result: CaseAnalysisResult{
				Summary:          "s",
				PredictedOutcome: "Favorable",
				ConfidenceScore:  1.0,
				Reasoning:        "r",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCaseAnalysisResultValidate_NormalizesNilSections(t *testing.T) {
	result := CaseAnalysisResult{
		Summary:          "s",
		PredictedOutcome: "Favorable",
		ConfidenceScore:  0.5,
		Reasoning:        "r",
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if result.RelevantSections == nil {
		t.Error("expected nil relevant_sections to be normalized to an empty slice")
	}
}

func TestBiasAnalysisResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  BiasAnalysisResult
		wantErr bool
	}{
		{
			name: "valid with bias",
			result: BiasAnalysisResult{
				BiasFound:      true,
				Score:          7,
				Explanation:    "Gendered language in the reasoning.",
				FlaggedPhrases: []string{"a woman of her standing"},
			},
		},
		{
			name: "valid without bias",
			result: BiasAnalysisResult{
				Score:       0,
				Explanation: "No biased language detected.",
			},
		},
		{
			name:    "empty explanation",
			result:  BiasAnalysisResult{Score: 3},
			wantErr: true,
		},
		{
			name:    "score above range",
			result:  BiasAnalysisResult{Score: 11, Explanation: "e"},
			wantErr: true,
		},
		{
			name:    "negative score",
			result:  BiasAnalysisResult{Score: -1, Explanation: "e"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBiasAnalysisResultValidate_NormalizesNilPhrases(t *testing.T) {
	result := BiasAnalysisResult{Score: 2, Explanation: "e"}
	if err := result.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if result.FlaggedPhrases == nil {
		t.Error("expected nil flagged_phrases to be normalized to an empty slice")
	}
}
