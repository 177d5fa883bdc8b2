package playback

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// nativePlayer is a command line audio player
type nativePlayer struct {
	name string
	args func(path string) []string
}

func trailingPath(flags ...string) func(string) []string {
	return func(path string) []string {
		return append(append([]string{}, flags...), path)
	}
}

// nativePlayers lists the players tried on each platform, best first
func nativePlayers(goos string) []nativePlayer {
	switch goos {
	case "darwin":
		return []nativePlayer{
			{name: "afplay", args: trailingPath()},
		}
	case "windows":
		return []nativePlayer{
			{name: "powershell", args: windowsMediaPlayerScript},
		}
	default:
		// mpg123 first since it handles MP3 files best
		return []nativePlayer{
			{name: "mpg123", args: trailingPath("-q")},
			{name: "ffplay", args: trailingPath("-nodisp", "-autoexit", "-loglevel", "quiet")},
			{name: "play", args: trailingPath("-q")},
			{name: "paplay", args: trailingPath()},
			{name: "aplay", args: trailingPath("-q")},
		}
	}
}

// windowsMediaPlayerScript plays the file through the Windows Media Player
// COM object and waits until it stops
func windowsMediaPlayerScript(path string) []string {
	escaped := strings.ReplaceAll(path, "'", "''")
	script := fmt.Sprintf(`$p = New-Object -ComObject WMPlayer.OCX; `+
		`$p.URL = '%s'; $p.controls.play(); `+
		`Start-Sleep -Milliseconds 300; `+
		`while ($p.playState -eq 3 -or $p.playState -eq 9) { Start-Sleep -Milliseconds 100 }`, escaped)
	return []string{"-NoProfile", "-Command", script}
}

// resolveNativePlayer picks the override when set, otherwise the first
// platform player found on PATH
func resolveNativePlayer(override, goos string) (nativePlayer, error) {
	if fields := strings.Fields(override); len(fields) > 0 {
		if _, err := lookPath(fields[0]); err != nil {
			return nativePlayer{}, fmt.Errorf("configured player %q not found: %w", fields[0], err)
		}
		return nativePlayer{name: fields[0], args: trailingPath(fields[1:]...)}, nil
	}

	candidates := nativePlayers(goos)
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, err := lookPath(candidate.name); err == nil {
			return candidate, nil
		}
		names = append(names, candidate.name)
	}

	return nativePlayer{}, fmt.Errorf("no audio player found. Install one of: %s", strings.Join(names, ", "))
}

// NativeStrategy plays files with the platform's command line audio player.
// A zero exit status counts as success.
func NativeStrategy(override string) Strategy {
	return Strategy{
		Name: "native",
		Play: func(ctx context.Context, path string) error {
			player, err := resolveNativePlayer(override, runtime.GOOS)
			if err != nil {
				return err
			}

			cmd := exec.CommandContext(ctx, player.name, player.args(path)...)
			if output, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("%s failed: %w: %s", player.name, err, strings.TrimSpace(string(output)))
			}
			return nil
		},
	}
}
