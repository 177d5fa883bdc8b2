package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"pronouncer/internal/cli/scheme/colours"
	"pronouncer/internal/config"
	"pronouncer/internal/dictionary"
	"pronouncer/internal/pronounce/app"
	"pronouncer/internal/pronounce/playback"
	"pronouncer/internal/pronounce/tts"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errUsage makes the process exit with status 1 after printing help
var errUsage = errors.New("no word given")

func main() {

	config.SetDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		fmt.Println("\n" + colours.Warning.Sprint("👋 Goodbye!"))
		os.Exit(0)
	}()

	rootCmd := newRootCmd(os.Stdin, os.Stdout)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUsage) {
			colours.Error.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// speechAnnotation marks the commands that need a speech engine
const speechAnnotation = "speech"

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		cfgFile     string
		play        bool
		interactive bool
		verbose     bool
		pronouncer  *app.Pronouncer
		engine      tts.Engine
	)

	rootCmd := &cobra.Command{
		Use:   "pronouncer [word]",
		Short: "🔊 Get pronunciation of English words from the command line",
		Long: `
pronouncer looks up an English word in the free dictionary API and shows its
phonetic spelling and a few short definitions. With --play it plays the
recorded pronunciation, or speaks the word with your system's text-to-speech
when no recording exists.

Examples:
  pronouncer hello          # show pronunciation and definitions
  pronouncer -p tomato      # ...and play it
  pronouncer -i -p          # interactive mode, type 'quit' to leave`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return err
			}
			if interactive {
				return nil
			}
			// A blank word counts as no word at all
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				cmd.Help()
				return errUsage
			}
			return nil
		},
		Annotations:   map[string]string{speechAnnotation: "true"},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			setupLogging(cfg.Log.Level, verbose)

			_, withSpeech := cmd.Annotations[speechAnnotation]
			pronouncer, engine, err = newPronouncer(cmd.Context(), cfg, out, withSpeech)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closer, ok := engine.(io.Closer); ok {
				closer.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				pronouncer.Interactive(cmd.Context(), in, play)
				return nil
			}

			pronouncer.LookupAndDisplay(cmd.Context(), strings.TrimSpace(args[0]), play)
			return nil
		},
	}

	// Cache command
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "🗄️ Manage the lookup cache",
		Long:  "Inspect or clear the on-disk cache of dictionary lookups",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "📊 Show cache status",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			pronouncer.ShowCacheStatus(cmd, args)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "🧹 Remove cached lookups",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			pronouncer.ClearCache(cmd, args)
		},
	}

	// Voices command
	voicesCmd := &cobra.Command{
		Use:         "voices",
		Short:       "🎤 List voices of the speech engine",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{speechAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			pronouncer.ListVoices(cmd, args)
		},
	}

	// Add flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pronouncer/pronouncer.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("engine", "", "Speech engine: auto, say, espeak, sapi, googleclassic, mock")
	rootCmd.PersistentFlags().String("voice", "", "Voice used for text-to-speech. See 'pronouncer voices'")
	rootCmd.Flags().BoolVarP(&play, "play", "p", false, "Play audio pronunciation")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Interactive mode")

	viper.BindPFlag("tts.type", rootCmd.PersistentFlags().Lookup("engine"))
	viper.BindPFlag("tts.voice", rootCmd.PersistentFlags().Lookup("voice"))

	cacheCmd.AddCommand(statusCmd, clearCmd)
	rootCmd.AddCommand(cacheCmd, voicesCmd)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	return rootCmd
}

// newPronouncer wires the dictionary, playback chain and, when withSpeech is
// set, the speech engine. The returned engine is nil otherwise.
func newPronouncer(ctx context.Context, cfg *config.Config, out io.Writer, withSpeech bool) (*app.Pronouncer, tts.Engine, error) {
	var lookup dictionary.Lookuper = dictionary.NewClient(dictionary.Config{
		BaseURL: cfg.Dictionary.BaseURL,
		Timeout: cfg.Dictionary.Timeout,
	})

	var cache *dictionary.Cache
	if cfg.Cache.Enabled {
		cache = dictionary.NewCache(lookup, cfg.Cache.Dir, cfg.Cache.MaxAge)
		lookup = cache
	}

	player := playback.NewPlayer(playback.Config{
		Timeout: cfg.Playback.Timeout,
		TempDir: cfg.Playback.TempDir,
		Player:  cfg.Playback.Player,
	})

	opts := app.Options{
		Out:            out,
		MaxDefinitions: cfg.Display.MaxDefinitions,
		Cache:          cache,
	}

	if !withSpeech {
		logrus.WithField("cache", cfg.Cache.Enabled).Debug("Pronouncer ready without speech")
		return app.New(lookup, player, nil, opts), nil, nil
	}

	engine, err := tts.NewEngine(ctx, tts.Config{
		Type:      cfg.TTS.Type,
		Voice:     cfg.TTS.Voice,
		Speed:     cfg.TTS.Speed,
		Volume:    cfg.TTS.Volume,
		CachePath: cfg.TTS.CachePath,
	}, player)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tts engine: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"engine": engine.Name(),
		"cache":  cfg.Cache.Enabled,
	}).Debug("Pronouncer ready")

	return app.New(lookup, player, engine, opts), engine, nil
}

func setupLogging(level string, verbose bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Warn("Invalid log level, using warn")
		lvl = logrus.WarnLevel
	}
	logrus.SetLevel(lvl)
}
