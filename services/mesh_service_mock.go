package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockMeshAnalyzer is a mock implementation of MeshAnalyzer for testing
type MockMeshAnalyzer struct {
	result       *GeometryResult
	err          error
	analyzeCalls int
	mu           sync.Mutex
}

// NewMockMeshAnalyzer creates a mock analyzer returning the given geometry
func NewMockMeshAnalyzer(result *GeometryResult) *MockMeshAnalyzer {
	return &MockMeshAnalyzer{result: result}
}

// SetAsMockForTesting sets this mock as the global mesh analyzer instance for testing
func (m *MockMeshAnalyzer) SetAsMockForTesting() {
	SetMeshAnalyzer(m)
}

// FailWith makes subsequent Analyze calls return the given error
func (m *MockMeshAnalyzer) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Analyze returns the configured geometry or error
func (m *MockMeshAnalyzer) Analyze(fileHeader *multipart.FileHeader) (*GeometryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.analyzeCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, fmt.Errorf("mock analyzer has no geometry configured")
	}
	// Return a copy so callers cannot mutate the configured result
	result := *m.result
	return &result, nil
}

// AnalyzeCalls returns how many times Analyze was called (for testing assertions)
func (m *MockMeshAnalyzer) AnalyzeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyzeCalls
}
