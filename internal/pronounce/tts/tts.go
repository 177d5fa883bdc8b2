// internal/pronounce/tts/tts.go
package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type Config struct {
	Type      string
	Speed     float64
	Volume    float64
	Voice     string
	CachePath string
}

// DefaultConfig picks the platform engine at normal speed and volume
func DefaultConfig() Config {
	return Config{
		Type:   EngineTypeAuto.String(),
		Speed:  1.0,
		Volume: 1.0,
		Voice:  "default",
	}
}

// Engine interface for text-to-speech functionality.
// Speak blocks until the text has been spoken.
type Engine interface {
	Speak(ctx context.Context, text string) error
	Name() string
}

// VoiceLister is implemented by engines that can enumerate their voices
type VoiceLister interface {
	GetAvailableVoices(ctx context.Context) ([]string, error)
}

// FilePlayer plays a local audio file
type FilePlayer interface {
	PlayFile(ctx context.Context, path string) error
}

// runFunc runs a command to completion and returns its output
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// lookPath is swapped out in tests
var lookPath = exec.LookPath

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

func useVoice(voice string) bool {
	return voice != "" && voice != "default"
}
