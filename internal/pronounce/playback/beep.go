package playback

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// BeepStrategy decodes and plays MP3 files in-process
func BeepStrategy() Strategy {
	return Strategy{
		Name: "beep",
		Play: PlayWithBeep,
	}
}

// PlayWithBeep plays an MP3 file through the default audio device and blocks
// until the stream ends or ctx is cancelled
func PlayWithBeep(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open MP3 %s: %w", path, err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode MP3 %s: %w", path, err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialise speaker: %w", err)
	}
	defer speaker.Close()

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
