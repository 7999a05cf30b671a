package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"courierbook/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCore struct {
	dist *geo.Distance
	err  error
}

func (f *fakeCore) Distance(_ context.Context, from, to string) (*geo.Distance, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := *f.dist
	d.From, d.To = from, to
	return &d, nil
}

type envelope struct {
	Data          json.RawMessage `json:"data"`
	Success       bool            `json:"success"`
	StatusMessage string          `json:"status_message"`
}

func get(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestLookupOk(t *testing.T) {
	core := &fakeCore{dist: &geo.Distance{Miles: 42.5}}
	h := Lookup(slog.Default(), core)

	w, env := get(t, h, "/v1/distance?from=SW1A+1AA&to=M1+1AE")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var d geo.Distance
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, 42.5, d.Miles)
	assert.Equal(t, "SW1A 1AA", d.From)
}

func TestLookupMissingParams(t *testing.T) {
	core := &fakeCore{dist: &geo.Distance{}}
	h := Lookup(slog.Default(), core)

	for _, target := range []string{"/v1/distance", "/v1/distance?from=SW1A+1AA", "/v1/distance?to=M1+1AE"} {
		w, env := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.False(t, env.Success, target)
	}
}

func TestLookupUnknownPostcode(t *testing.T) {
	core := &fakeCore{err: fmt.Errorf("origin: ZZ99 9ZZ: %w", geo.ErrUnknownPostcode)}
	h := Lookup(slog.Default(), core)

	w, env := get(t, h, "/v1/distance?from=ZZ99+9ZZ&to=M1+1AE")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestLookupUpstreamFailure(t *testing.T) {
	core := &fakeCore{err: fmt.Errorf("osrm 502 Bad Gateway")}
	h := Lookup(slog.Default(), core)

	w, env := get(t, h, "/v1/distance?from=SW1A+1AA&to=M1+1AE")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, upstreamMessage, env.StatusMessage)
}
