package tts

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

type fakeSynthesizer struct {
	requests []*texttospeechpb.SynthesizeSpeechRequest
}

func (f *fakeSynthesizer) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) ([]byte, error) {
	f.requests = append(f.requests, req)
	return []byte("mp3-bytes"), nil
}

func (f *fakeSynthesizer) ListVoices(ctx context.Context) ([]string, error) {
	return []string{"en-US-Chirp3-HD-Charon"}, nil
}

func (f *fakeSynthesizer) Close() error {
	return nil
}

type fakeFilePlayer struct {
	played []string
}

func (f *fakeFilePlayer) PlayFile(ctx context.Context, path string) error {
	f.played = append(f.played, path)
	return nil
}

func TestGoogleEngine_SynthesizesOnceThenUsesCache(t *testing.T) {
	client := &fakeSynthesizer{}
	player := &fakeFilePlayer{}
	engine, err := newGoogleEngineWithClient(client, Config{CachePath: t.TempDir(), Voice: "default"}, player)
	require.NoError(t, err)

	require.NoError(t, engine.Speak(context.Background(), "hello"))
	require.NoError(t, engine.Speak(context.Background(), "hello"))

	assert.Len(t, client.requests, 1)
	require.Len(t, player.played, 2)
	assert.Equal(t, player.played[0], player.played[1])

	content, err := os.ReadFile(player.played[0])
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(content))
}

func TestGoogleEngine_Request(t *testing.T) {
	client := &fakeSynthesizer{}
	engine, err := newGoogleEngineWithClient(client, Config{CachePath: t.TempDir(), Voice: "en-GB-Standard-A", Speed: 0.8}, &fakeFilePlayer{})
	require.NoError(t, err)

	req := engine.request("hello")

	assert.Equal(t, "en-GB", req.Voice.LanguageCode)
	assert.Equal(t, "en-GB-Standard-A", req.Voice.Name)
	assert.Equal(t, 0.8, req.AudioConfig.SpeakingRate)
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, req.AudioConfig.AudioEncoding)
}

func TestGoogleEngine_ChirpSkipsSpeakingRate(t *testing.T) {
	engine, err := newGoogleEngineWithClient(&fakeSynthesizer{}, Config{CachePath: t.TempDir(), Speed: 1.5}, &fakeFilePlayer{})
	require.NoError(t, err)

	req := engine.request("hello")

	assert.Equal(t, defaultGoogleVoice, req.Voice.Name)
	assert.Zero(t, req.AudioConfig.SpeakingRate)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en-US", languageCode("en-US-Chirp3-HD-Charon"))
	assert.Equal(t, "en-US", languageCode("plain"))
}
