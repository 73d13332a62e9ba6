package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bassista/tzcache/internal/cache"
	"github.com/bassista/tzcache/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const upstreamPayload = `{
  "timezones_by_continent": {
    "Europe": [
      {"value": "Europe/Paris", "offset": "+01:00"},
      {"value": "Europe/London", "offset": 0},
      {"value": "Europe/Broken"}
    ],
    "Asia": [
      {"value": "Asia/Kolkata", "offset": "+05:30"}
    ]
  }
}`

// MockDispatcher is a mock implementation of cache.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ev state.Event) state.State {
	args := m.Called(ev)
	return args.Get(0).(state.State)
}

func (m *MockDispatcher) Requesting() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockDispatcher) dispatchedTags() []string {
	var tags []string
	for _, call := range m.Calls {
		if call.Method == "Dispatch" {
			tags = append(tags, call.Arguments.Get(0).(state.Event).Tag())
		}
	}
	return tags
}

// stubSource returns a canned payload or error.
type stubSource struct {
	body  []byte
	err   error
	block chan struct{}
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.block != nil {
		<-s.block
	}
	return s.body, s.err
}

func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wpcom/v2/timezones" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetcher_Refresh_Success(t *testing.T) {
	server := newUpstream(t, http.StatusOK, upstreamPayload)
	source := NewHTTPSource(Options{BaseURL: server.URL, Path: "/wpcom/v2/timezones", Timeout: time.Second})

	dispatcher := &MockDispatcher{}
	dispatcher.On("Dispatch", mock.Anything).Return(state.State{})

	f := New(source, dispatcher)
	items, err := f.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, items.Continents())
	assert.Equal(t, 3, items.Entries())
	assert.Equal(t, []int{0, 60, 330}, items.RawOffsets)
	assert.Equal(t, []string{
		state.TagRequestTimezones,
		state.TagReceiveTimezones,
		state.TagRequestTimezonesSuccess,
	}, dispatcher.dispatchedTags())
	dispatcher.AssertExpectations(t)
}

func TestFetcher_Refresh_UpstreamStatus(t *testing.T) {
	server := newUpstream(t, http.StatusInternalServerError, `{"error":"boom"}`)
	source := NewHTTPSource(Options{BaseURL: server.URL, Path: "/wpcom/v2/timezones", Timeout: time.Second})

	dispatcher := &MockDispatcher{}
	dispatcher.On("Dispatch", mock.Anything).Return(state.State{})

	_, err := New(source, dispatcher).Refresh(context.Background())

	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Equal(t, []string{
		state.TagRequestTimezones,
		state.TagRequestTimezonesFailure,
	}, dispatcher.dispatchedTags())
}

func TestFetcher_Refresh_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"array", `[1, 2, 3]`},
		{"string", `"timezones"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &MockDispatcher{}
					dispatcher.On("Dispatch", mock.Anything).Return(state.State{})

			_, err := New(&stubSource{body: []byte(tt.body)}, dispatcher).Refresh(context.Background())

			assert.ErrorIs(t, err, ErrUpstreamPayload)
			assert.Equal(t, []string{
				state.TagRequestTimezones,
				state.TagRequestTimezonesFailure,
			}, dispatcher.dispatchedTags())
		})
	}
}

func TestFetcher_Refresh_SourceError(t *testing.T) {
	sourceErr := errors.New("connection refused")
	dispatcher := &MockDispatcher{}
	dispatcher.On("Dispatch", mock.Anything).Return(state.State{})

	_, err := New(&stubSource{err: sourceErr}, dispatcher).Refresh(context.Background())

	assert.ErrorIs(t, err, sourceErr)
	assert.Equal(t, []string{
		state.TagRequestTimezones,
		state.TagRequestTimezonesFailure,
	}, dispatcher.dispatchedTags())
}

func TestFetcher_Refresh_CancelledContext(t *testing.T) {
	server := newUpstream(t, http.StatusOK, upstreamPayload)
	source := NewHTTPSource(Options{BaseURL: server.URL, Path: "/wpcom/v2/timezones", Timeout: time.Second})
	store := cache.NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(source, store).Refresh(ctx)

	assert.Error(t, err)
	assert.False(t, store.Requesting(), "a cancelled request must still clear the flag")
	assert.Equal(t, 0, store.Snapshot().Entries())
}

func TestFetcher_Refresh_ClearsStuckRequestingFlag(t *testing.T) {
	store := cache.NewStore()
	store.Dispatch(state.RequestTimezones{})
	require.True(t, store.Requesting())

	items, err := New(&stubSource{body: []byte(upstreamPayload)}, store).Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, items.Entries())
	assert.False(t, store.Requesting())
	assert.Equal(t, 3, store.Snapshot().Entries())
}

func TestFetcher_Refresh_ConcurrentCallsAreRefused(t *testing.T) {
	source := &stubSource{body: []byte(upstreamPayload), block: make(chan struct{})}
	store := cache.NewStore()
	f := New(source, store)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.Refresh(context.Background())
	}()

	require.Eventually(t, store.Requesting, time.Second, 5*time.Millisecond)

	_, err := f.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInFlight)

	close(source.block)
	wg.Wait()

	assert.NoError(t, firstErr)
	assert.False(t, store.Requesting())
	assert.Equal(t, 3, store.Snapshot().Entries())
	assert.True(t, store.IsDirty())
}

func TestFetcher_Refresh_ReplacesStoreItems(t *testing.T) {
	store := cache.NewStore()
	first := New(&stubSource{body: []byte(`{"Dame": [{"value": "el", "offset": 60}, {"value": "fuego", "offset": 60}]}`)}, store)
	_, err := first.Refresh(context.Background())
	require.NoError(t, err)

	second := New(&stubSource{body: []byte(upstreamPayload)}, store)
	_, err = second.Refresh(context.Background())
	require.NoError(t, err)

	items := store.Snapshot()
	assert.NotContains(t, items.TimezonesByContinent, "Dame")
	assert.Contains(t, items.TimezonesByContinent, "Europe")
}
