package tts

import (
	"context"
	"fmt"
	"strings"
)

// SAPIEngine speaks through the Windows Speech API via PowerShell
type SAPIEngine struct {
	config Config
	run    runFunc
}

func newSAPIEngine(config Config) *SAPIEngine {
	return &SAPIEngine{
		config: config,
		run:    runCommand,
	}
}

func (s *SAPIEngine) Name() string {
	return EngineTypeSAPI.String()
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (s *SAPIEngine) script(text string) string {
	var b strings.Builder
	b.WriteString("Add-Type -AssemblyName System.Speech; ")
	b.WriteString("$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")

	if useVoice(s.config.Voice) {
		fmt.Fprintf(&b, "$synth.SelectVoice(%s); ", psQuote(s.config.Voice))
	}
	if s.config.Speed > 0 {
		// SAPI rate range is -10 to 10
		fmt.Fprintf(&b, "$synth.Rate = %d; ", clamp(int(s.config.Speed*10)-10, -10, 10))
	}
	if s.config.Volume > 0 {
		fmt.Fprintf(&b, "$synth.Volume = %d; ", clamp(int(s.config.Volume*100), 0, 100))
	}

	fmt.Fprintf(&b, "$synth.Speak(%s)", psQuote(text))
	return b.String()
}

func (s *SAPIEngine) Speak(ctx context.Context, text string) error {
	if _, err := lookPath("powershell"); err != nil {
		return fmt.Errorf("powershell not found: %w", err)
	}

	_, err := s.run(ctx, "powershell", "-NoProfile", "-Command", s.script(text))
	return err
}

func (s *SAPIEngine) GetAvailableVoices(ctx context.Context) ([]string, error) {
	output, err := s.run(ctx, "powershell", "-NoProfile", "-Command",
		"Add-Type -AssemblyName System.Speech; "+
			"(New-Object System.Speech.Synthesis.SpeechSynthesizer).GetInstalledVoices() | "+
			"ForEach-Object { $_.VoiceInfo.Name }")
	if err != nil {
		return nil, err
	}

	voices := make([]string, 0)
	for _, line := range strings.Split(string(output), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			voices = append(voices, name)
		}
	}
	return voices, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
