// Cross-platform eSpeak implementation
package tts

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ESpeakEngine implements TTS using eSpeak/eSpeak-NG
type ESpeakEngine struct {
	config Config
	run    runFunc
}

func newESpeakEngine(config Config) *ESpeakEngine {
	return &ESpeakEngine{
		config: config,
		run:    runCommand,
	}
}

func findESpeakExecutable() (string, error) {
	candidates := []string{"espeak-ng", "espeak"}

	for _, candidate := range candidates {
		if path, err := lookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("eSpeak executable not found in PATH")
}

func (e *ESpeakEngine) Name() string {
	return EngineTypeESpeak.String()
}

func (e *ESpeakEngine) args(text string) []string {
	args := []string{}

	if useVoice(e.config.Voice) {
		args = append(args, "-v", e.config.Voice)
	}

	// words per minute, default is 175
	if e.config.Speed > 0 {
		args = append(args, "-s", strconv.Itoa(int(175*e.config.Speed)))
	}

	// amplitude 0-200, default is 100
	if e.config.Volume > 0 {
		args = append(args, "-a", strconv.Itoa(int(100*e.config.Volume)))
	}

	return append(args, text)
}

func (e *ESpeakEngine) Speak(ctx context.Context, text string) error {
	espeakPath, err := findESpeakExecutable()
	if err != nil {
		return err
	}

	_, err = e.run(ctx, espeakPath, e.args(text)...)
	return err
}

func (e *ESpeakEngine) GetAvailableVoices(ctx context.Context) ([]string, error) {
	espeakPath, err := findESpeakExecutable()
	if err != nil {
		return nil, err
	}

	output, err := e.run(ctx, espeakPath, "--voices")
	if err != nil {
		return nil, err
	}

	return parseESpeakVoices(string(output)), nil
}

func parseESpeakVoices(output string) []string {
	lines := strings.Split(output, "\n")
	voices := make([]string, 0)

	for i, line := range lines {
		// Skip header line
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		// Pty Language Age/Gender VoiceName File Other Languages
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			voices = append(voices, fields[3])
		}
	}

	return voices
}
