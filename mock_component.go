package router

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockComponent for testing. Lifecycle calls are always recorded in
// the counters and props fields; they are also forwarded to the
// testify mock when an expectation for the method was registered.
type MockComponent struct {
	mock.Mock

	mu           sync.Mutex
	Name         string
	MountCount   int
	UpdateCount  int
	UnmountCount int
	MountProps   []Props
	UpdateProps  []Props
	last         Props

	// OnMount, OnUpdate and OnUnmount run after the call is recorded.
	OnMount   func(Props)
	OnUpdate  func(Props)
	OnUnmount func()
}

func NewMockComponent(name string) *MockComponent {
	return &MockComponent{Name: name}
}

// Factory returns a ComponentFunc that always yields m.
func (m *MockComponent) Factory() ComponentFunc {
	return func() Component {
		return m
	}
}

func (m *MockComponent) BeforeMount(props Props) {
	m.mu.Lock()
	m.MountCount++
	m.MountProps = append(m.MountProps, props)
	m.last = props
	m.mu.Unlock()

	if m.expects("BeforeMount") {
		m.Called(props)
	}
	if m.OnMount != nil {
		m.OnMount(props)
	}
}

func (m *MockComponent) Update(props Props) {
	m.mu.Lock()
	m.UpdateCount++
	m.UpdateProps = append(m.UpdateProps, props)
	m.last = props
	m.mu.Unlock()

	if m.expects("Update") {
		m.Called(props)
	}
	if m.OnUpdate != nil {
		m.OnUpdate(props)
	}
}

func (m *MockComponent) BeforeUnmount() {
	m.mu.Lock()
	m.UnmountCount++
	m.mu.Unlock()

	if m.expects("BeforeUnmount") {
		m.Called()
	}
	if m.OnUnmount != nil {
		m.OnUnmount()
	}
}

// Counts returns mount, update and unmount counts.
func (m *MockComponent) Counts() (mounts, updates, unmounts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MountCount, m.UpdateCount, m.UnmountCount
}

// LastProps returns the props of the latest mount or update.
func (m *MockComponent) LastProps() Props {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Mounted reports whether the component is currently mounted.
func (m *MockComponent) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MountCount > m.UnmountCount
}

// Reset clears recorded calls, keeping hooks and expectations.
func (m *MockComponent) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MountCount, m.UpdateCount, m.UnmountCount = 0, 0, 0
	m.MountProps, m.UpdateProps = nil, nil
	m.last = Props{}
}

func (m *MockComponent) expects(method string) bool {
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}
