package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// windowsPlayScript plays a file with the WPF media player and waits for it
const windowsPlayScript = `Add-Type -AssemblyName presentationCore; ` +
	`$p = New-Object System.Windows.Media.MediaPlayer; $p.Open([uri]'%s'); ` +
	`while (-not $p.NaturalDuration.HasTimeSpan) { Start-Sleep -Milliseconds 50 }; ` +
	`$p.Play(); Start-Sleep -Milliseconds $p.NaturalDuration.TimeSpan.TotalMilliseconds; $p.Close()`

// Player plays audio files using whatever command line player the platform
// provides
type Player struct {
	lookPath func(string) (string, error)
	goos     string
}

// NewPlayer creates a player for the current platform
func NewPlayer() *Player {
	return &Player{
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
	}
}

// IsAvailable reports whether a usable player binary exists
func (p *Player) IsAvailable() error {
	return p.CanPlay(".wav")
}

// CanPlay reports whether a player for files with the given extension exists
func (p *Player) CanPlay(ext string) error {
	_, err := p.command(context.Background(), "audio"+ext)
	return err
}

// Play plays file and blocks until playback has finished. Cancelling ctx
// kills the player process.
func (p *Player) Play(ctx context.Context, file string) error {
	cmd, err := p.command(ctx, file)
	if err != nil {
		return err
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// command builds the platform specific playback command
func (p *Player) command(ctx context.Context, file string) (*exec.Cmd, error) {
	switch p.goos {
	case "darwin":
		return exec.CommandContext(ctx, "afplay", file), nil
	case "linux", "freebsd", "openbsd":
		// mpg123 first since it handles MP3 files best. paplay and aplay
		// only decode WAV.
		wav := strings.EqualFold(filepath.Ext(file), ".wav")
		candidates := []struct {
			args    []string
			wavOnly bool
		}{
			{[]string{"mpg123", "-q", file}, false},
			{[]string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file}, false},
			{[]string{"play", "-q", file}, false}, // SoX
			{[]string{"paplay", file}, true},
			{[]string{"aplay", "-q", file}, true},
		}
		for _, c := range candidates {
			if c.wavOnly && !wav {
				continue
			}
			if _, err := p.lookPath(c.args[0]); err == nil {
				return exec.CommandContext(ctx, c.args[0], c.args[1:]...), nil
			}
		}
		if wav {
			return nil, errors.New("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
		}
		return nil, fmt.Errorf("no audio player for %s files found. Install mpg123, ffplay, or sox", filepath.Ext(file))
	case "windows":
		script := fmt.Sprintf(windowsPlayScript, file)
		return exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}
