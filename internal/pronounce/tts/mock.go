package tts

import (
	"context"

	"github.com/fatih/color"
)

// MockTTSEngine records what it was asked to say instead of speaking
type MockTTSEngine struct {
	Spoken []string
	Err    error
	voice  string
}

func NewMockTTSEngine(c Config) *MockTTSEngine {
	return &MockTTSEngine{
		voice: c.Voice,
	}
}

func (m *MockTTSEngine) Name() string {
	return EngineTypeMock.String()
}

func (m *MockTTSEngine) Speak(ctx context.Context, text string) error {
	m.Spoken = append(m.Spoken, text)
	if m.Err != nil {
		return m.Err
	}

	color.Yellow("🔊 Speaking %q (simulated)", text)
	return nil
}

func (m *MockTTSEngine) GetAvailableVoices(ctx context.Context) ([]string, error) {
	return []string{"mock-voice"}, nil
}
