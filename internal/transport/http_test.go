package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/beakersync/internal/constants"
	"github.com/wizzomafizzo/beakersync/internal/settings"
)

func TestNewHTTP_Endpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base     string
		expected string
	}{
		{base: "http://localhost:8888", expected: "http://localhost:8888/beakerx/settings"},
		{base: "http://localhost:8888/", expected: "http://localhost:8888/beakerx/settings"},
		{base: "https://hub.example.com/user/ann/", expected: "https://hub.example.com/user/ann/beakerx/settings"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			t.Parallel()

			h, err := NewHTTP(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h.Endpoint())
		})
	}
}

func TestNewHTTP_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"localhost", "://bad", ""} {
		_, err := NewHTTP(base)
		assert.Error(t, err, "base %q", base)
	}
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, constants.SettingsPath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(constants.RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jvm_options":{"heap_GB":3,"other":["-verbose"],"properties":[{"name":"a","value":"b"}]},"version":2}`)
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL, WithToken("abc123"))
	require.NoError(t, err)

	record, err := h.LoadSettings(context.Background())
	require.NoError(t, err)

	require.NotNil(t, record.JVMOptions)
	assert.InDelta(t, 3.0, *record.JVMOptions.HeapGB, 0)
	assert.Equal(t, []string{"-verbose"}, record.JVMOptions.Other)
	assert.Equal(t, []settings.Property{{Name: "a", Value: "b"}}, record.JVMOptions.Properties)
	assert.Nil(t, record.UIOptions)
	assert.Equal(t, "token abc123", gotAuth)
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err)
}

func TestLoadSettings_NoTokenHeaderWhenUnset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"jvm_options":{"heap_GB":null,"other":[],"properties":[]},"version":2}`)
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL)
	require.NoError(t, err)

	record, err := h.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record.JVMOptions.HeapGB)
}

func TestLoadSettings_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL)
	require.NoError(t, err)

	_, err = h.LoadSettings(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
	assert.Equal(t, "forbidden", statusErr.Body)
	assert.Contains(t, err.Error(), "403")
}

func TestLoadSettings_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>login</html>")
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL)
	require.NoError(t, err)

	_, err = h.LoadSettings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode settings response")
}

func TestLoadSettings_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	h, err := NewHTTP(server.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = h.LoadSettings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings request failed")
}

func TestSaveSettings(t *testing.T) {
	t.Parallel()

	var body map[string]any
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL)
	require.NoError(t, err)

	payload := settings.DefaultConfig()
	payload.JVMOptions.HeapGB = settings.Heap(8)

	err = h.SaveSettings(context.Background(), settings.Envelope{BeakerX: payload})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	require.Contains(t, body, "beakerx")
	inner, ok := body["beakerx"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2.0, inner["version"], 0)
	jvm, ok := inner["jvm_options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 8.0, jvm["heap_GB"], 0)
}

func TestSaveSettings_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, strings.Repeat("x", maxErrorBody*2), http.StatusInternalServerError)
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL)
	require.NoError(t, err)

	err = h.SaveSettings(context.Background(), settings.Envelope{BeakerX: settings.DefaultConfig()})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Len(t, statusErr.Body, maxErrorBody)
}
