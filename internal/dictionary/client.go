package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"pronouncer/internal/domain/word"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultTimeout = 10 * time.Second
)

// Lookuper resolves a word into its pronunciation and definitions
type Lookuper interface {
	Lookup(ctx context.Context, term string) (*word.Result, error)
}

// Config holds the dictionary endpoint settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the public dictionaryapi.dev endpoint with a 10 second timeout
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Client talks to the dictionary API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a dictionary client. Zero fields fall back to DefaultConfig.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Lookup fetches the first dictionary entry for term.
// Any failure, including transport errors, matches ErrNotFound.
func (c *Client) Lookup(ctx context.Context, term string) (*word.Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(term))
	if normalized == "" {
		return nil, ErrEmptyWord
	}

	endpoint := c.baseURL + "/" + url.PathEscape(normalized)
	log := logrus.WithFields(logrus.Fields{
		"word": normalized,
		"url":  endpoint,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NotFoundError{Word: term, Cause: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("Dictionary request failed")
		return nil, &NotFoundError{Word: term, Cause: err}
	}
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		log.Debug("Word not in dictionary")
		return nil, &NotFoundError{Word: term}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("Dictionary returned an error status")
		return nil, &NotFoundError{
			Word:  term,
			Cause: &StatusError{StatusCode: resp.StatusCode, Status: resp.Status},
		}
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		log.WithError(err).Debug("Failed to decode dictionary response")
		return nil, &NotFoundError{Word: term, Cause: fmt.Errorf("failed to parse JSON response: %w", err)}
	}

	if len(entries) == 0 {
		log.Debug("Dictionary returned no entries")
		return nil, &NotFoundError{Word: term}
	}

	log.WithField("entries", len(entries)).Debug("Dictionary lookup succeeded")
	return entries[0].Result(term), nil
}
