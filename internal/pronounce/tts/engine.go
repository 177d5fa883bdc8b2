package tts

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"
)

type EngineType string

const (
	EngineTypeMock          EngineType = "mock"
	EngineTypeESpeak        EngineType = "espeak"
	EngineTypeSay           EngineType = "say"  // macOS
	EngineTypeSAPI          EngineType = "sapi" // Windows
	EngineTypeGoogleClassic EngineType = "googleclassic"
	EngineTypeAuto          EngineType = "auto" // Automatically choose the OS engine
)

func (e EngineType) String() string {
	return string(e)
}

// NewEngine creates a new TTS engine based on the provided config.
// Command based engines only look for their executable when speaking, so a
// missing tool surfaces as a Speak error. player is used by engines that
// synthesize audio files and may be nil otherwise.
func NewEngine(ctx context.Context, config Config, player FilePlayer) (Engine, error) {
	if config.Type == "" || config.Type == EngineTypeAuto.String() {
		config.Type = getBestEngineForPlatform(runtime.GOOS).String()
	}

	switch config.Type {
	case EngineTypeMock.String():
		return NewMockTTSEngine(config), nil

	case EngineTypeESpeak.String():
		return newESpeakEngine(config), nil

	case EngineTypeSay.String():
		return newSayEngine(config), nil

	case EngineTypeSAPI.String():
		return newSAPIEngine(config), nil

	case EngineTypeGoogleClassic.String():
		if player == nil {
			return nil, fmt.Errorf("google classic engine needs an audio player")
		}
		if config.CachePath == "" {
			config.CachePath = viper.GetString("tts.cache_path")
		}
		return newGoogleClassicTTSEngine(ctx, config, player)

	default:
		return nil, fmt.Errorf("unsupported TTS engine type: %s", config.Type)
	}
}

// getBestEngineForPlatform returns the speech command shipped with the OS
func getBestEngineForPlatform(goos string) EngineType {
	switch goos {
	case "darwin":
		return EngineTypeSay
	case "windows":
		return EngineTypeSAPI
	default:
		return EngineTypeESpeak // Cross-platform fallback
	}
}

// GetAvailableEngines returns engines usable on the current platform
func GetAvailableEngines() []EngineType {
	engines := []EngineType{EngineTypeMock, EngineTypeESpeak}

	if hasGoogleCredentials() {
		engines = append(engines, EngineTypeGoogleClassic)
	}

	switch runtime.GOOS {
	case "windows":
		engines = append(engines, EngineTypeSAPI)
	case "darwin":
		engines = append(engines, EngineTypeSay)
	}

	return engines
}

// hasGoogleCredentials checks if Google Cloud credentials are available
func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}
