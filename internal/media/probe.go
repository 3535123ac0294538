package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"vocabsub/internal/deps"
)

// Track is one subtitle stream in a container. Position is the stream's
// ordinal among subtitle streams, the N of ffmpeg's "-map 0:s:N".
type Track struct {
	Position int
	Index    int
	Codec    string
	Language string
	Title    string
	Default  bool
	Forced   bool
}

// Textual reports whether ffmpeg can convert the track to SRT. Bitmap
// formats need OCR and are not supported.
func (t Track) Textual() bool {
	switch strings.ToLower(t.Codec) {
	case "hdmv_pgs_subtitle", "dvd_subtitle", "dvb_subtitle", "xsub":
		return false
	}
	return true
}

type probeOutput struct {
	Streams []struct {
		Index       int               `json:"index"`
		CodecName   string            `json:"codec_name"`
		CodecType   string            `json:"codec_type"`
		Tags        map[string]string `json:"tags"`
		Disposition map[string]int    `json:"disposition"`
	} `json:"streams"`
}

// ProbeBinary returns the ffprobe that sits next to ffmpeg, falling back to
// "ffprobe" on PATH.
func ProbeBinary(ffmpeg string) string {
	return deps.Sidecar(ffmpeg, "ffprobe").Command
}

// SubtitleTracks lists the subtitle streams of video.
func SubtitleTracks(ctx context.Context, ffprobe, video string) ([]Track, error) {
	if strings.TrimSpace(ffprobe) == "" {
		ffprobe = "ffprobe"
	}
	if strings.TrimSpace(video) == "" {
		return nil, errors.New("ffprobe: empty path")
	}
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error", "-hide_banner", "-show_streams", "-select_streams", "s", "-of", "json", "--", video)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w%s", video, err, stderrOf(err))
	}
	return parseProbe(output)
}

func parseProbe(data []byte) ([]Track, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("ffprobe parse: %w", err)
	}
	tracks := make([]Track, 0, len(out.Streams))
	for _, s := range out.Streams {
		if s.CodecType != "" && !strings.EqualFold(s.CodecType, "subtitle") {
			continue
		}
		tracks = append(tracks, Track{
			Position: len(tracks),
			Index:    s.Index,
			Codec:    s.CodecName,
			Language: strings.ToLower(strings.TrimSpace(s.Tags["language"])),
			Title:    strings.TrimSpace(s.Tags["title"]),
			Default:  s.Disposition["default"] == 1,
			Forced:   s.Disposition["forced"] == 1,
		})
	}
	return tracks, nil
}

// PickTrack chooses the first textual, non-forced track whose language tag
// matches any of languages (ISO 639-1 or 639-2). With no match it returns
// false.
func PickTrack(tracks []Track, languages ...string) (Track, bool) {
	want := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			want[l] = struct{}{}
		}
	}
	for _, forcedOK := range []bool{false, true} {
		for _, t := range tracks {
			if !t.Textual() || (t.Forced && !forcedOK) {
				continue
			}
			if _, ok := want[t.Language]; ok {
				return t, true
			}
		}
	}
	return Track{}, false
}

func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return ": " + msg
		}
	}
	return ""
}
