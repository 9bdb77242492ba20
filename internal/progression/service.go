package progression

import "github.com/phrazzld/wordstone/internal/domain"

// Service defines the interface for progression calculations
type Service interface {
	// ComputeLevel derives the progression state from raw usage totals
	ComputeLevel(totalUsageMs, itemCount, conceptScoreSum float64) domain.ProgressionState

	// Params returns the parameters the service computes with
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new progression service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new progression service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// ComputeLevel implements the Service interface
func (s *defaultService) ComputeLevel(totalUsageMs, itemCount, conceptScoreSum float64) domain.ProgressionState {
	return ComputeLevel(NewInputs(totalUsageMs, itemCount, conceptScoreSum), s.params)
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return *s.params
}
