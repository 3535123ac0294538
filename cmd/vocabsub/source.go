package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vocabsub/internal/config"
	"vocabsub/internal/language"
	"vocabsub/internal/media"
	"vocabsub/internal/pipeline"
	"vocabsub/internal/services"
)

// trackAuto asks for the first textual track in the source language.
const trackAuto = -1

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".mov": true,
	".webm": true, ".avi": true, ".ts": true, ".m2ts": true,
}

// subtitleSource is the subtitle file a command works on. Files extracted or
// downloaded into a scratch directory are removed by cleanup.
type subtitleSource struct {
	Path          string
	DefaultOutput string
	Origin        string
	cleanup       func()
}

func (s subtitleSource) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

type sourceRequest struct {
	Input string
	Track int
	URL   string
}

func resolveSource(ctx context.Context, cfg *config.Config, req sourceRequest) (subtitleSource, error) {
	input := strings.TrimSpace(req.Input)
	url := strings.TrimSpace(req.URL)

	switch {
	case url != "" && input != "":
		return subtitleSource{}, services.Wrap(services.ErrValidation, "cli", "resolve input", "pass either an input file or --url, not both", nil)
	case url != "":
		return fetchRemoteSource(ctx, cfg, url)
	case input == "":
		return subtitleSource{}, services.Wrap(services.ErrValidation, "cli", "resolve input", "an input file or --url is required", nil)
	}

	if _, err := os.Stat(input); err != nil {
		return subtitleSource{}, services.Wrap(services.ErrNotFound, "cli", "resolve input", input, err)
	}
	if videoExtensions[strings.ToLower(filepath.Ext(input))] {
		return extractTrackSource(ctx, cfg, input, req.Track)
	}
	return subtitleSource{
		Path:          input,
		DefaultOutput: pipeline.DefaultOutputPath(input),
		Origin:        "file",
	}, nil
}

func extractTrackSource(ctx context.Context, cfg *config.Config, video string, position int) (subtitleSource, error) {
	if position == trackAuto {
		tracks, err := media.SubtitleTracks(ctx, media.ProbeBinary(cfg.Media.FFmpegBinary), video)
		if err != nil {
			return subtitleSource{}, services.Wrap(services.ErrExternalTool, "media", "probe", video, err)
		}
		lang := cfg.Language.Source
		track, ok := media.PickTrack(tracks, lang, language.ToISO3(lang))
		if !ok {
			msg := fmt.Sprintf("no text subtitle track in %q among %d tracks; pass --track", lang, len(tracks))
			return subtitleSource{}, services.Wrap(services.ErrNotFound, "media", "pick track", msg, nil)
		}
		position = track.Position
	}

	dir, err := os.MkdirTemp("", "vocabsub-track-")
	if err != nil {
		return subtitleSource{}, fmt.Errorf("create scratch dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }
	dest := filepath.Join(dir, fmt.Sprintf("track%d.srt", position))
	if err := media.ExtractTrack(ctx, cfg.Media.FFmpegBinary, video, position, dest); err != nil {
		cleanup()
		return subtitleSource{}, services.Wrap(services.ErrExternalTool, "media", "extract track", video, err)
	}
	return subtitleSource{
		Path:          dest,
		DefaultOutput: strings.TrimSuffix(video, filepath.Ext(video)) + ".vocab.srt",
		Origin:        fmt.Sprintf("track %d of %s", position, filepath.Base(video)),
		cleanup:       cleanup,
	}, nil
}

func fetchRemoteSource(ctx context.Context, cfg *config.Config, url string) (subtitleSource, error) {
	dir, err := os.MkdirTemp("", "vocabsub-remote-")
	if err != nil {
		return subtitleSource{}, fmt.Errorf("create scratch dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }
	path, err := media.FetchRemote(ctx, cfg.Media.YtDlpBinary, url, cfg.Language.Source, dir)
	if err != nil {
		cleanup()
		return subtitleSource{}, services.Wrap(services.ErrExternalTool, "media", "fetch remote", url, err)
	}
	return subtitleSource{
		Path:          path,
		DefaultOutput: pipeline.DefaultOutputPath(filepath.Base(path)),
		Origin:        url,
		cleanup:       cleanup,
	}, nil
}
