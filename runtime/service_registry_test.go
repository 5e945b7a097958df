package runtime

import (
	"testing"

	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

type mockService struct {
	started bool
	stopped int
	order   *[]string
	name    string
}

func (m *mockService) Start() {
	m.started = true
}

func (m *mockService) Stop() error {
	m.stopped++
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
	return nil
}

func (m *mockService) Status() error {
	return nil
}

type secondMockService struct {
	mockService
}

func TestRegisterService_Twice(t *testing.T) {
	registry := NewServiceRegistry()
	m := &mockService{}
	require.NoError(t, registry.RegisterService(m))
	require.ErrorContains(t, "service already exists", registry.RegisterService(m))
}

func TestStopAll_ReverseOrder(t *testing.T) {
	registry := NewServiceRegistry()
	var order []string
	first := &mockService{name: "first", order: &order}
	second := &secondMockService{mockService{name: "second", order: &order}}
	require.NoError(t, registry.RegisterService(first))
	require.NoError(t, registry.RegisterService(second))

	registry.StopAll()

	require.DeepEqual(t, []string{"second", "first"}, order)
}

func TestFetchService(t *testing.T) {
	registry := NewServiceRegistry()
	m := &mockService{}
	require.NoError(t, registry.RegisterService(m))

	require.ErrorContains(t, "input must be of pointer type", registry.FetchService(mockService{}))
}

func TestFetchService_RoundTrip(t *testing.T) {
	registry := NewServiceRegistry()
	m := &mockService{}
	require.NoError(t, registry.RegisterService(m))

	var got *mockService
	require.NoError(t, registry.FetchService(&got))
	if got != m {
		t.Fatal("fetched service is not the registered instance")
	}

	var missing *secondMockService
	require.ErrorContains(t, "unknown service", registry.FetchService(&missing))
}
