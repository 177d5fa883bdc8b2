package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"pronouncer/internal/cli/scheme/colours"
	"pronouncer/internal/dictionary"
	"pronouncer/internal/domain/word"
	"pronouncer/internal/pronounce/playback"
	"pronouncer/internal/pronounce/tts"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DefaultMaxDefinitions is how many definitions are printed per word
const DefaultMaxDefinitions = 3

// AudioPlayer plays a pronunciation recording from a URL
type AudioPlayer interface {
	PlayPronunciation(ctx context.Context, audioURL string) error
}

// Speaker synthesizes speech for a piece of text
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Options tune the front end
type Options struct {
	Out            io.Writer
	MaxDefinitions int
	Cache          *dictionary.Cache // nil when the lookup cache is disabled
}

// Pronouncer is the command line front end: it looks words up, prints them
// and decides between recorded audio and synthesized speech
type Pronouncer struct {
	dictionary     dictionary.Lookuper
	player         AudioPlayer
	speaker        Speaker
	out            io.Writer
	maxDefinitions int
	cache          *dictionary.Cache
}

func New(dict dictionary.Lookuper, player AudioPlayer, speaker Speaker, opts Options) *Pronouncer {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.MaxDefinitions <= 0 {
		opts.MaxDefinitions = DefaultMaxDefinitions
	}

	return &Pronouncer{
		dictionary:     dict,
		player:         player,
		speaker:        speaker,
		out:            opts.Out,
		maxDefinitions: opts.MaxDefinitions,
		cache:          opts.Cache,
	}
}

// LookupAndDisplay prints the pronunciation of term. With play set it plays
// the dictionary recording, or speaks term when there is no recording or the
// lookup failed.
func (p *Pronouncer) LookupAndDisplay(ctx context.Context, term string, play bool) {
	result, err := p.dictionary.Lookup(ctx, term)
	if err != nil {
		if !errors.Is(err, dictionary.ErrNotFound) {
			logrus.WithError(err).WithField("word", term).Warn("Lookup failed")
		} else {
			logrus.WithError(err).WithField("word", term).Debug("Lookup returned no result")
		}

		fmt.Fprintln(p.out)
		colours.Title.Fprintf(p.out, "  %s\n", term)
		colours.Warning.Fprintln(p.out, "  (not in dictionary - using text-to-speech)")
		fmt.Fprintln(p.out)

		if play {
			p.speak(ctx, term)
		}
		return
	}

	p.display(result)

	if !play {
		return
	}

	if result.HasAudio() {
		p.playPronunciation(ctx, result.AudioURL)
	} else {
		p.speak(ctx, term)
	}
}

func (p *Pronouncer) display(result *word.Result) {
	fmt.Fprintln(p.out)
	colours.Title.Fprintf(p.out, "  %s\n", result.Word)
	colours.Phonetic.Fprintf(p.out, "  %s\n", result.Phonetic)

	if definitions := result.Top(p.maxDefinitions); len(definitions) > 0 {
		fmt.Fprintln(p.out)
		colours.Info.Fprintln(p.out, "  Definitions:")
		for i, d := range definitions {
			fmt.Fprintf(p.out, "    %d. ", i+1)
			colours.PartOfSpeech.Fprintf(p.out, "(%s)", d.PartOfSpeech)
			fmt.Fprintf(p.out, " %s\n", d.Definition)
		}
	}

	fmt.Fprintln(p.out)
}

// playPronunciation reports whether the recording was played
func (p *Pronouncer) playPronunciation(ctx context.Context, audioURL string) bool {
	err := p.player.PlayPronunciation(ctx, audioURL)
	if err == nil {
		return true
	}

	var downloadErr *playback.DownloadError
	switch {
	case errors.As(err, &downloadErr):
		colours.Error.Fprintf(p.out, "  Could not download audio: %v\n", downloadErr.Err)
	case errors.Is(err, playback.ErrPlaybackUnavailable):
		colours.Error.Fprintln(p.out, "  Could not play audio - no audio player available")
	default:
		colours.Error.Fprintf(p.out, "  Could not play audio: %v\n", err)
	}
	return false
}

// speak reports whether the text was spoken
func (p *Pronouncer) speak(ctx context.Context, text string) bool {
	if err := p.speaker.Speak(ctx, text); err != nil {
		logrus.WithError(err).WithField("word", text).Debug("Speech synthesis failed")
		colours.Error.Fprintf(p.out, "  Could not speak word: %v\n", err)
		return false
	}
	return true
}

// isQuit reports whether the input ends interactive mode
func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// Interactive reads words from in until quit, end of input or cancellation
func (p *Pronouncer) Interactive(ctx context.Context, in io.Reader, play bool) {
	colours.Title.Fprintln(p.out, "Pronouncer - Interactive Mode")
	fmt.Fprintln(p.out, "Type a word to get its pronunciation, or 'quit' to exit")
	fmt.Fprintln(p.out)

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(p.out)
			return
		}

		colours.Prompt.Fprint(p.out, ">>> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logrus.WithError(err).Debug("Failed to read input")
			}
			fmt.Fprintln(p.out)
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isQuit(input) {
			return
		}

		p.LookupAndDisplay(ctx, input, play)
	}
}

// ShowCacheStatus displays information about the lookup cache
func (p *Pronouncer) ShowCacheStatus(cmd *cobra.Command, args []string) {
	colours.Title.Fprintln(p.out, "📊 Lookup Cache Status")

	if p.cache == nil {
		colours.Warning.Fprintln(p.out, "⚠️ Lookup cache is disabled (cache.enabled: false)")
		return
	}

	info, err := p.cache.Info()
	if err != nil {
		colours.Error.Fprintf(p.out, "❌ Failed to get cache info: %v\n", err)
		return
	}

	if !info["exists"].(bool) {
		colours.Warning.Fprintln(p.out, "❌ Cache does not exist")
		colours.Info.Fprintln(p.out, "💡 Look up a word to create it")
		return
	}

	colours.Success.Fprintln(p.out, "✅ Cache exists")
	colours.Info.Fprintf(p.out, "📁 Location: %s\n", p.cache.Path())
	colours.Info.Fprintf(p.out, "📚 Words: %d\n", info["entries"].(int))
	colours.Info.Fprintf(p.out, "📏 Size: %d bytes\n", info["size"].(int64))
	colours.Info.Fprintf(p.out, "🕐 Last modified: %s\n", info["last_modified"].(time.Time).Format("2006-01-02 15:04:05"))
	colours.Info.Fprintf(p.out, "⏳ Max age: %.1f hours\n", info["max_age_hours"].(float64))
}

// ClearCache removes the lookup cache file
func (p *Pronouncer) ClearCache(cmd *cobra.Command, args []string) {
	if p.cache == nil {
		colours.Warning.Fprintln(p.out, "⚠️ Lookup cache is disabled (cache.enabled: false)")
		return
	}

	if err := p.cache.Clear(); err != nil {
		colours.Error.Fprintf(p.out, "❌ Failed to clear cache: %v\n", err)
		return
	}

	colours.Success.Fprintf(p.out, "✅ Removed %s\n", filepath.Base(p.cache.Path()))
}

// ListVoices prints the voices offered by the speech engine
func (p *Pronouncer) ListVoices(cmd *cobra.Command, args []string) {
	lister, ok := p.speaker.(tts.VoiceLister)
	if !ok {
		colours.Warning.Fprintln(p.out, "⚠️ The speech engine cannot list voices")
		return
	}

	voices, err := lister.GetAvailableVoices(cmd.Context())
	if err != nil {
		colours.Error.Fprintf(p.out, "❌ Failed to list voices: %v\n", err)
		return
	}

	sort.Strings(voices)
	colours.Title.Fprintln(p.out, "🎤 Available voices")
	for _, v := range voices {
		fmt.Fprintf(p.out, "  • %s\n", v)
	}
	colours.Info.Fprintln(p.out, "💡 Set tts.voice in pronouncer.yaml to use one")

	engines := make([]string, 0)
	for _, e := range tts.GetAvailableEngines() {
		engines = append(engines, e.String())
	}
	colours.Info.Fprintf(p.out, "💡 Engines on this system: %s\n", strings.Join(engines, ", "))
}
