// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"costcheck/internal/types"

	"github.com/stretchr/testify/mock"
)

// MockRunRecorder is a mock implementation of queue.RunRecorder
type MockRunRecorder struct {
	mock.Mock
}

func (m *MockRunRecorder) SaveRun(run *types.ConformanceRun) error {
	args := m.Called(run)
	return args.Error(0)
}
