package tts

import (
	"context"
	"fmt"
	"strings"
)

// SayEngine speaks through the macOS say command
type SayEngine struct {
	config Config
	run    runFunc
}

func newSayEngine(config Config) *SayEngine {
	return &SayEngine{
		config: config,
		run:    runCommand,
	}
}

func (s *SayEngine) Name() string {
	return EngineTypeSay.String()
}

func (s *SayEngine) args(text string) []string {
	args := []string{}

	if useVoice(s.config.Voice) {
		args = append(args, "-v", s.config.Voice)
	}

	// words per minute, default is ~175
	if s.config.Speed > 0 {
		args = append(args, "-r", fmt.Sprintf("%.0f", 175*s.config.Speed))
	}

	return append(args, text)
}

func (s *SayEngine) Speak(ctx context.Context, text string) error {
	if _, err := lookPath("say"); err != nil {
		return fmt.Errorf("say not found: %w", err)
	}

	_, err := s.run(ctx, "say", s.args(text)...)
	return err
}

func (s *SayEngine) GetAvailableVoices(ctx context.Context) ([]string, error) {
	output, err := s.run(ctx, "say", "-v", "?")
	if err != nil {
		return nil, err
	}

	return parseSayVoices(string(output)), nil
}

// parseSayVoices reads lines shaped like "Alex    en_US    # Most people recognize me by my voice."
func parseSayVoices(output string) []string {
	voices := make([]string, 0)

	for _, line := range strings.Split(output, "\n") {
		head, _, _ := strings.Cut(line, "#")
		fields := strings.Fields(head)
		if len(fields) < 2 {
			continue
		}
		// the last field is the locale, voice names may contain spaces
		voices = append(voices, strings.Join(fields[:len(fields)-1], " "))
	}

	return voices
}
