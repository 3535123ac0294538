package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// FetchRemote downloads the subtitles of a remote video into dir without the
// media itself and returns the SRT path. Uploaded subtitles are preferred;
// automatic captions are used when nothing else exists.
func FetchRemote(ctx context.Context, binary, url, lang, dir string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", errors.New("yt-dlp: url is required")
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "en"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("yt-dlp: create dir: %w", err)
	}

	dl := ytdlp.New().
		SkipDownload().
		NoPlaylist().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(lang + ".*," + lang).
		SubFormat("srt/vtt/best").
		ConvertSubs("srt").
		Output(filepath.Join(dir, "%(id)s.%(ext)s"))
	if binary = strings.TrimSpace(binary); binary != "" {
		dl = dl.SetExecutable(binary)
	}
	if _, err := dl.Run(ctx, url); err != nil {
		return "", fmt.Errorf("yt-dlp %s: %w", url, err)
	}
	return findSubtitle(dir, lang)
}

// findSubtitle picks the downloaded SRT for lang, preferring an exact
// language suffix over regional variants.
func findSubtitle(dir, lang string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.srt"))
	if err != nil {
		return "", err
	}
	sort.Strings(matches)
	var fallback string
	for _, path := range matches {
		base := strings.TrimSuffix(filepath.Base(path), ".srt")
		suffix := base[strings.LastIndex(base, ".")+1:]
		switch {
		case strings.EqualFold(suffix, lang):
			return path, nil
		case fallback == "" && strings.HasPrefix(strings.ToLower(suffix), strings.ToLower(lang)+"-"):
			fallback = path
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	if len(matches) > 0 {
		return matches[0], nil
	}
	return "", fmt.Errorf("yt-dlp: no %s subtitles found in %s", lang, dir)
}
