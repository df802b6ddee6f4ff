package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateManager_Lifecycle(t *testing.T) {
	sm := NewStateManager()
	assert.False(t, sm.IsFitted())
	assert.Equal(t, Untrained, sm.State())

	sm.SetFitted(3, 120)
	assert.True(t, sm.IsFitted())
	nFeatures, nSamples := sm.GetDimensions()
	assert.Equal(t, 3, nFeatures)
	assert.Equal(t, 120, nSamples)
	assert.Equal(t, ModelState{State: "trained", NFeatures: 3, NSamples: 120}, sm.GetState())

	sm.Reset()
	assert.False(t, sm.IsFitted())
	assert.Equal(t, ModelState{State: "untrained"}, sm.GetState())
}

func TestStateManager_ConcurrentReads(t *testing.T) {
	sm := NewStateManager()
	sm.SetFitted(1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, sm.IsFitted())
		}()
	}
	wg.Wait()
}

func TestBaseEstimator(t *testing.T) {
	var e BaseEstimator
	assert.False(t, e.IsFitted())
	e.SetFitted()
	assert.Equal(t, Trained, e.State())
	e.Reset()
	assert.False(t, e.IsFitted())
}
