package metrics

import "sync"

// MockMetrics is a no-op implementation of the Metrics interface that
// records call counts for assertions in tests.
type MockMetrics struct {
	mu sync.Mutex

	DocumentLoadsCalls int
	DocumentSavesCalls int
	SaveRejectionCalls map[string]int
	UploadCalls        int
	EntryDeletionCalls int
	SaveDurations      []float64
	StartupTimeSeconds float64
	StartupTimeWasSet  bool
}

var _ Metrics = (*MockMetrics)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{SaveRejectionCalls: make(map[string]int)}
}

func (m *MockMetrics) IncDocumentLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DocumentLoadsCalls++
}

func (m *MockMetrics) IncDocumentSaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DocumentSavesCalls++
}

func (m *MockMetrics) IncSaveRejections(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveRejectionCalls[reason]++
}

func (m *MockMetrics) IncUploads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls++
}

func (m *MockMetrics) IncEntryDeletions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntryDeletionCalls++
}

func (m *MockMetrics) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveDurations = append(m.SaveDurations, duration)
}

func (m *MockMetrics) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimeSeconds = duration
	m.StartupTimeWasSet = true
}
