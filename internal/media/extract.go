package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ExtractTrack converts subtitle stream position of video to an SRT file at
// dest.
func ExtractTrack(ctx context.Context, ffmpeg, video string, position int, dest string) error {
	if strings.TrimSpace(ffmpeg) == "" {
		ffmpeg = "ffmpeg"
	}
	if strings.TrimSpace(video) == "" || strings.TrimSpace(dest) == "" {
		return errors.New("ffmpeg extract: video and destination are required")
	}
	if position < 0 {
		return fmt.Errorf("ffmpeg extract: invalid track %d", position)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ffmpeg extract: create destination dir: %w", err)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", video,
		"-map", "0:s:" + strconv.Itoa(position),
		"-c:s", "srt",
		dest,
	}
	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract track %d: %w: %s", position, err, strings.TrimSpace(string(output)))
	}
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg extract track %d: produced an empty file", position)
	}
	return nil
}
