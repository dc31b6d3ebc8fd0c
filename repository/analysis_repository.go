package repository

import (
	"context"
	"sync"
	"time"

	"aijustice-backend/models"

	"github.com/google/uuid"
)

// AnalysisRepository keeps completed analysis records in memory so a
// result can be fetched again within the lifetime of the process. Nothing
// survives a restart.
type AnalysisRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Analysis
	ordered []uuid.UUID
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{
		byID: make(map[uuid.UUID]*models.Analysis),
	}
}

// Create stores a new analysis record, assigning its id and timestamp.
func (r *AnalysisRepository) Create(_ context.Context, analysis *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	analysis.ID = uuid.New()
	analysis.CreatedAt = time.Now()

	stored := *analysis
	r.byID[stored.ID] = &stored
	r.ordered = append(r.ordered, stored.ID)
	return nil
}

// GetByID retrieves an analysis record by ID.
func (r *AnalysisRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	analysis := *stored
	return &analysis, nil
}

// List returns all analysis records in creation order.
func (r *AnalysisRepository) List(_ context.Context) ([]*models.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analyses := make([]*models.Analysis, 0, len(r.ordered))
	for _, id := range r.ordered {
		analysis := *r.byID[id]
		analyses = append(analyses, &analysis)
	}
	return analyses, nil
}
