package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedState struct{ snap *domain.Snapshot }

func (f *fixedState) Snapshot() *domain.Snapshot { return f.snap }

func newTestServer(t *testing.T, opts ...Option) (*Server, *memory.Board, *fixedState) {
	t.Helper()
	board := memory.NewBoard("pilot.home", "pilot.actionReady")
	state := &fixedState{}
	bindings := []cadence.BindingInfo{{Index: 0, Name: "home hold", Edge: "while_true", Condition: "home"}}
	return NewServer(board, state, bindings, opts...), board, state
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Flags(t *testing.T) {
	s, _, state := newTestServer(t)
	h := s.Handler()

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, "GET", "/flags", "").Code)

	state.snap = &domain.Snapshot{Tick: 4, Flags: map[string]bool{"coral": true}}
	w := do(t, h, "GET", "/flags", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint64(4), got.Tick)
	assert.True(t, got.Get("coral"))
}

func TestServer_Signals(t *testing.T) {
	s, board, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"set", "PUT", "/signals/pilot.home", `{"value": true}`, http.StatusNoContent},
		{"missing value", "PUT", "/signals/pilot.home", `{}`, http.StatusBadRequest},
		{"bad json", "PUT", "/signals/pilot.home", `true`, http.StatusBadRequest},
		{"unknown", "PUT", "/signals/pilot.nope", `{"value": true}`, http.StatusNotFound},
		{"pulse", "POST", "/signals/pilot.actionReady/pulse", "", http.StatusAccepted},
		{"pulse unknown", "POST", "/signals/pilot.nope/pulse", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, h, tt.method, tt.path, tt.body).Code)
		})
	}

	w := do(t, h, "GET", "/signals", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]bool{"pilot.home": true, "pilot.actionReady": true}, got)

	v, err := board.Read("pilot.actionReady")
	require.NoError(t, err)
	assert.True(t, v, "pulse holds until sampled")
}

func TestServer_Bindings(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(t, s.Handler(), "GET", "/bindings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []cadence.BindingInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "home hold", got[0].Name)
}

func TestServer_Actions(t *testing.T) {
	var submitted []string
	submit := func(r *http.Request, a action.Action) error {
		submitted = append(submitted, a.Name())
		return nil
	}
	reset := action.Reset("Clear States", domain.NewFlag("coral"))
	s, _, _ := newTestServer(t, WithActions(submit, map[string]action.Action{"clear-states": reset}))
	h := s.Handler()

	assert.Equal(t, http.StatusAccepted, do(t, h, "POST", "/actions/clear-states", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/actions/explode", "").Code)
	assert.Equal(t, []string{"Clear States"}, submitted)

	w := do(t, h, "GET", "/actions", "")
	assert.JSONEq(t, `["clear-states"]`, w.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.Ticks.Inc()

	s, _, _ := newTestServer(t, WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	w := do(t, s.Handler(), "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cadence_ticks_total 1")
}

func TestServer_Events(t *testing.T) {
	s, _, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	require.Eventually(t, func() bool { return s.Streams.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	prev := &domain.Snapshot{Tick: 1, Flags: map[string]bool{"action": false}}
	next := &domain.Snapshot{Tick: 2, Flags: map[string]bool{"action": true}}
	require.NoError(t, s.Streams.Publish(ctx, prev, nil))
	require.NoError(t, s.Streams.Publish(ctx, next, domain.Diff(prev, next)))

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, uint64(2), diff.Tick)
	assert.Equal(t, map[string]bool{"action": true}, diff.Changed)
}
