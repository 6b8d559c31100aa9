package service

import (
	"github.com/estimmo/backend/internal/domain"
)

// EstimationRepository is re-exported from domain for convenience
type EstimationRepository = domain.EstimationRepository
