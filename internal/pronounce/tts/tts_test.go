package tts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCommand struct {
	name string
	args []string
}

type fakeRunner struct {
	commands []recordedCommand
	output   []byte
	err      error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.commands = append(f.commands, recordedCommand{name: name, args: args})
	return f.output, f.err
}

func withLookPath(t *testing.T, available ...string) {
	t.Helper()

	original := lookPath
	t.Cleanup(func() { lookPath = original })

	lookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestNewEngine_Types(t *testing.T) {
	tests := []struct {
		engineType string
		want       string
	}{
		{"mock", "mock"},
		{"espeak", "espeak"},
		{"say", "say"},
		{"sapi", "sapi"},
	}

	for _, tt := range tests {
		t.Run(tt.engineType, func(t *testing.T) {
			engine, err := NewEngine(context.Background(), Config{Type: tt.engineType}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, engine.Name())
		})
	}
}

func TestNewEngine_Unsupported(t *testing.T) {
	_, err := NewEngine(context.Background(), Config{Type: "festival"}, nil)
	assert.Error(t, err)
}

func TestNewEngine_GoogleNeedsPlayer(t *testing.T) {
	_, err := NewEngine(context.Background(), Config{Type: "googleclassic"}, nil)
	assert.Error(t, err)
}

func TestNewEngine_AutoPicksPlatformEngine(t *testing.T) {
	engine, err := NewEngine(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, "mock", engine.Name())
}

func TestGetBestEngineForPlatform(t *testing.T) {
	assert.Equal(t, EngineTypeSay, getBestEngineForPlatform("darwin"))
	assert.Equal(t, EngineTypeSAPI, getBestEngineForPlatform("windows"))
	assert.Equal(t, EngineTypeESpeak, getBestEngineForPlatform("linux"))
	assert.Equal(t, EngineTypeESpeak, getBestEngineForPlatform("freebsd"))
}

func TestESpeakEngine_Speak(t *testing.T) {
	withLookPath(t, "espeak")
	runner := &fakeRunner{}
	engine := newESpeakEngine(Config{Voice: "en-us", Speed: 1.0, Volume: 0.5})
	engine.run = runner.run

	require.NoError(t, engine.Speak(context.Background(), "hello"))

	require.Len(t, runner.commands, 1)
	assert.Equal(t, "/usr/bin/espeak", runner.commands[0].name)
	assert.Equal(t, []string{"-v", "en-us", "-s", "175", "-a", "50", "hello"}, runner.commands[0].args)
}

func TestESpeakEngine_PrefersESpeakNG(t *testing.T) {
	withLookPath(t, "espeak", "espeak-ng")

	path, err := findESpeakExecutable()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/espeak-ng", path)
}

func TestESpeakEngine_MissingExecutable(t *testing.T) {
	withLookPath(t)
	runner := &fakeRunner{}
	engine := newESpeakEngine(DefaultConfig())
	engine.run = runner.run

	err := engine.Speak(context.Background(), "hello")
	assert.Error(t, err)
	assert.Empty(t, runner.commands)
}

func TestESpeakEngine_CommandFailure(t *testing.T) {
	withLookPath(t, "espeak-ng")
	runner := &fakeRunner{err: errors.New("exit status 1")}
	engine := newESpeakEngine(DefaultConfig())
	engine.run = runner.run

	assert.Error(t, engine.Speak(context.Background(), "hello"))
}

func TestParseESpeakVoices(t *testing.T) {
	output := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-us           --/M      English_(America)  gmw/en-US

`
	assert.Equal(t, []string{"Afrikaans", "English_(America)"}, parseESpeakVoices(output))
}

func TestSayEngine_Speak(t *testing.T) {
	withLookPath(t, "say")
	runner := &fakeRunner{}
	engine := newSayEngine(Config{Voice: "Samantha", Speed: 1.0})
	engine.run = runner.run

	require.NoError(t, engine.Speak(context.Background(), "hello"))

	require.Len(t, runner.commands, 1)
	assert.Equal(t, "say", runner.commands[0].name)
	assert.Equal(t, []string{"-v", "Samantha", "-r", "175", "hello"}, runner.commands[0].args)
}

func TestSayEngine_DefaultVoiceOmitted(t *testing.T) {
	engine := newSayEngine(Config{Voice: "default"})
	assert.Equal(t, []string{"hello"}, engine.args("hello"))
}

func TestSayEngine_NotInstalled(t *testing.T) {
	withLookPath(t)
	runner := &fakeRunner{}
	engine := newSayEngine(DefaultConfig())
	engine.run = runner.run

	assert.Error(t, engine.Speak(context.Background(), "hello"))
	assert.Empty(t, runner.commands)
}

func TestParseSayVoices(t *testing.T) {
	output := "Alex                en_US    # Most people recognize me by my voice.\n" +
		"Bad News            en_US    # The light you see at the end of the tunnel is the headlamp.\n"

	assert.Equal(t, []string{"Alex", "Bad News"}, parseSayVoices(output))
}

func TestSAPIEngine_ScriptEscapesText(t *testing.T) {
	engine := newSAPIEngine(Config{Speed: 1.0, Volume: 1.0})

	script := engine.script("don't")

	assert.Contains(t, script, "$synth.Speak('don''t')")
	assert.Contains(t, script, "$synth.Rate = 0;")
	assert.Contains(t, script, "$synth.Volume = 100;")
	assert.NotContains(t, script, "SelectVoice")
}

func TestSAPIEngine_Speak(t *testing.T) {
	withLookPath(t, "powershell")
	runner := &fakeRunner{}
	engine := newSAPIEngine(Config{Voice: "Microsoft Zira"})
	engine.run = runner.run

	require.NoError(t, engine.Speak(context.Background(), "hello"))

	require.Len(t, runner.commands, 1)
	assert.Equal(t, "powershell", runner.commands[0].name)
	assert.Contains(t, runner.commands[0].args[2], "SelectVoice('Microsoft Zira')")
}

func TestMockEngine_RecordsSpeech(t *testing.T) {
	engine := NewMockTTSEngine(DefaultConfig())

	require.NoError(t, engine.Speak(context.Background(), "hello"))
	engine.Err = errors.New("boom")
	assert.Error(t, engine.Speak(context.Background(), "world"))

	assert.Equal(t, []string{"hello", "world"}, engine.Spoken)
}
