// Package model provides state management for machine learning models.
package model

import (
	"sync"
)

// StateManager manages the trained state of a model in a thread-safe manner.
// Retraining goes through Reset and SetFitted again; it is never incremental.
type StateManager struct {
	mu    sync.RWMutex
	state EstimatorState

	nFeatures int
	nSamples  int
}

// NewStateManager creates a new StateManager in the Untrained state.
func NewStateManager() *StateManager {
	return &StateManager{state: Untrained}
}

// IsFitted returns whether the model has been trained.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Trained
}

// State returns the current lifecycle state.
func (s *StateManager) State() EstimatorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetFitted marks the model as trained and records the fitted dimensions.
func (s *StateManager) SetFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Trained
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Reset returns the model to the Untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Untrained
	s.nFeatures = 0
	s.nSamples = 0
}

// GetDimensions returns the number of features and samples seen during training.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// ModelState represents the complete state of a model for debugging output.
type ModelState struct {
	State     string `json:"state"`
	NFeatures int    `json:"n_features,omitempty"`
	NSamples  int    `json:"n_samples,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		State:     s.state.String(),
		NFeatures: s.nFeatures,
		NSamples:  s.nSamples,
	}
}
