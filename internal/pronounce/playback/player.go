package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

// ErrPlaybackUnavailable is returned when every playback strategy failed
var ErrPlaybackUnavailable = errors.New("no audio player available")

// DownloadError is returned when the pronunciation recording could not be fetched
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Strategy is one way of making a local audio file audible.
// A nil error from Play means the file was played.
type Strategy struct {
	Name string
	Play func(ctx context.Context, path string) error
}

// Config holds playback settings
type Config struct {
	Timeout time.Duration // download timeout
	TempDir string        // where downloaded recordings are written, system default when empty
	Player  string        // native player command line overriding the platform default
}

// DefaultConfig returns the download timeout used for pronunciation recordings
func DefaultConfig() Config {
	return Config{Timeout: DefaultTimeout}
}

// Player downloads pronunciation recordings and plays them through an
// ordered list of strategies
type Player struct {
	httpClient *http.Client
	tempDir    string
	strategies []Strategy
}

// NewPlayer creates a player. Without explicit strategies the platform
// defaults from DefaultStrategies are used.
func NewPlayer(cfg Config, strategies ...Strategy) *Player {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies(cfg)
	}

	return &Player{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tempDir:    cfg.TempDir,
		strategies: strategies,
	}
}

// DefaultStrategies returns the native command line player followed by
// in-process playback
func DefaultStrategies(cfg Config) []Strategy {
	return []Strategy{
		NativeStrategy(cfg.Player),
		BeepStrategy(),
	}
}

// PlayPronunciation downloads audioURL to a temporary .mp3 file and plays it.
// The temporary file is left in place.
func (p *Player) PlayPronunciation(ctx context.Context, audioURL string) error {
	path, err := p.download(ctx, audioURL)
	if err != nil {
		return err
	}

	return p.PlayFile(ctx, path)
}

// PlayFile tries each strategy in order and stops at the first success
func (p *Player) PlayFile(ctx context.Context, path string) error {
	for _, strategy := range p.strategies {
		log := logrus.WithFields(logrus.Fields{
			"strategy": strategy.Name,
			"file":     path,
		})

		if err := strategy.Play(ctx, path); err != nil {
			log.WithError(err).Debug("Playback strategy failed")
			continue
		}

		log.Debug("Playback finished")
		return nil
	}

	return ErrPlaybackUnavailable
}

func (p *Player) download(ctx context.Context, audioURL string) (string, error) {
	// older dictionary entries carry protocol-relative links
	if strings.HasPrefix(audioURL, "//") {
		audioURL = "https:" + audioURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", &DownloadError{URL: audioURL, Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &DownloadError{URL: audioURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &DownloadError{
			URL: audioURL,
			Err: fmt.Errorf("HTTP %s", resp.Status),
		}
	}

	file, err := os.CreateTemp(p.tempDir, "pronouncer-*.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary audio file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		return "", &DownloadError{URL: audioURL, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"url":   audioURL,
		"file":  file.Name(),
		"bytes": written,
	}).Debug("Downloaded pronunciation audio")

	return file.Name(), nil
}
