package tts

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/sirupsen/logrus"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

const defaultGoogleVoice = "en-US-Chirp3-HD-Charon"

// synthesizer is the part of the Google client used for speaking
type synthesizer interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) ([]byte, error)
	ListVoices(ctx context.Context) ([]string, error)
	Close() error
}

type googleClient struct {
	client *texttospeech.Client
}

func (g *googleClient) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) ([]byte, error) {
	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.AudioContent, nil
}

func (g *googleClient) ListVoices(ctx context.Context) ([]string, error) {
	resp, err := g.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: "en"})
	if err != nil {
		return nil, err
	}
	voices := []string{}
	for _, v := range resp.Voices {
		voices = append(voices, v.Name)
	}
	return voices, nil
}

func (g *googleClient) Close() error {
	return g.client.Close()
}

// GoogleClassicTTSEngine synthesizes MP3 with Google Cloud Text-to-Speech,
// keeps it on disk and plays it through a FilePlayer
type GoogleClassicTTSEngine struct {
	client   synthesizer
	player   FilePlayer
	voice    string
	speed    float64
	cacheDir string
}

func newGoogleClassicTTSEngine(ctx context.Context, config Config, player FilePlayer) (*GoogleClassicTTSEngine, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}

	return newGoogleEngineWithClient(&googleClient{client: client}, config, player)
}

func newGoogleEngineWithClient(client synthesizer, config Config, player FilePlayer) (*GoogleClassicTTSEngine, error) {
	cacheDir := config.CachePath
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "pronouncer-tts")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	voice := defaultGoogleVoice
	if useVoice(config.Voice) {
		voice = config.Voice
	}

	return &GoogleClassicTTSEngine{
		client:   client,
		player:   player,
		voice:    voice,
		speed:    config.Speed,
		cacheDir: cacheDir,
	}, nil
}

func (g *GoogleClassicTTSEngine) Name() string {
	return EngineTypeGoogleClassic.String()
}

// languageCode derives "en-US" from a voice name such as "en-US-Chirp3-HD-Charon"
func languageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 2 {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}

func (g *GoogleClassicTTSEngine) cachePath(text string) string {
	contentHash := md5Sum(text + g.voice)[:12]
	return filepath.Join(g.cacheDir, fmt.Sprintf("speech_%s.mp3", contentHash))
}

func (g *GoogleClassicTTSEngine) request(text string) *texttospeechpb.SynthesizeSpeechRequest {
	audioCfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}

	// Chirp voices don't support speakingRate
	if !strings.Contains(strings.ToLower(g.voice), "chirp") && g.speed > 0 {
		audioCfg.SpeakingRate = g.speed
	}

	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode(g.voice),
			Name:         g.voice,
		},
		AudioConfig: audioCfg,
	}
}

func (g *GoogleClassicTTSEngine) Speak(ctx context.Context, text string) error {
	path := g.cachePath(text)
	log := logrus.WithFields(logrus.Fields{
		"voice": g.voice,
		"file":  path,
	})

	if _, err := os.Stat(path); os.IsNotExist(err) {
		audio, err := g.client.SynthesizeSpeech(ctx, g.request(text))
		if err != nil {
			return fmt.Errorf("failed to synthesize speech: %w", err)
		}

		if err := os.WriteFile(path, audio, 0644); err != nil {
			return fmt.Errorf("failed to write MP3 to %s: %w", path, err)
		}
		log.Debug("Cached synthesized speech")
	} else {
		log.Debug("Using cached speech")
	}

	return g.player.PlayFile(ctx, path)
}

func (g *GoogleClassicTTSEngine) GetAvailableVoices(ctx context.Context) ([]string, error) {
	return g.client.ListVoices(ctx)
}

func (g *GoogleClassicTTSEngine) Close() error {
	return g.client.Close()
}

func md5Sum(s string) string {
	h := md5.New()
	io.WriteString(h, s)
	return fmt.Sprintf("%x", h.Sum(nil))
}
