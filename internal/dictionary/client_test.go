package dictionary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"pronouncer/internal/domain/word"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second})
}

func respondJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestLookup_PhoneticWithAudio(t *testing.T) {
	client := newTestClient(t, respondJSON(`[{
		"word": "hello",
		"phonetics": [{"text": "/həˈləʊ/", "audio": "https://example.com/hello.mp3"}],
		"meanings": [{"partOfSpeech": "exclamation", "definitions": [{"definition": "used as a greeting"}]}]
	}]`))

	result, err := client.Lookup(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", result.Word)
	assert.Equal(t, "/həˈləʊ/", result.Phonetic)
	assert.Equal(t, "https://example.com/hello.mp3", result.AudioURL)
	assert.Equal(t, []word.Definition{
		{PartOfSpeech: "exclamation", Definition: "used as a greeting"},
	}, result.Definitions)
}

func TestLookup_RequestPathIsLowercased(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"phonetics": [], "meanings": []}]`))
	})

	result, err := client.Lookup(context.Background(), "HeLLo")
	require.NoError(t, err)

	assert.Equal(t, "/hello", gotPath)
	assert.Equal(t, "HeLLo", result.Word, "missing entry word falls back to the requested term")
	assert.Equal(t, word.NoPhonetic, result.Phonetic)
	assert.Empty(t, result.AudioURL)
	assert.Empty(t, result.Definitions)
}

func TestLookup_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title": "No Definitions Found"}`))
	})

	result, err := client.Lookup(context.Background(), "qwzxv")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.False(t, notFound.Transient())
}

func TestLookup_EmptyArray(t *testing.T) {
	client := newTestClient(t, respondJSON(`[]`))

	_, err := client.Lookup(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup_ServerErrorCollapsesToNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lookup(context.Background(), "hello")
	require.ErrorIs(t, err, ErrNotFound)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.EqualError(t, statusErr, "HTTP 500 Internal Server Error")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.True(t, notFound.Transient())
}

func TestLookup_MalformedJSON(t *testing.T) {
	client := newTestClient(t, respondJSON(`{not json`))

	_, err := client.Lookup(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup_TransportFailureCollapsesToNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: baseURL, Timeout: time.Second})

	result, err := client.Lookup(context.Background(), "hello")
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrNotFound)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.True(t, notFound.Transient())
}

func TestLookup_EmptyWord(t *testing.T) {
	client := NewClient(DefaultConfig())

	_, err := client.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
