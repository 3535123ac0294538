package media

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const probeJSON = `{"streams":[
 {"index":2,"codec_name":"subrip","codec_type":"subtitle","tags":{"language":"eng","title":"Forced"},"disposition":{"forced":1}},
 {"index":3,"codec_name":"hdmv_pgs_subtitle","codec_type":"subtitle","tags":{"language":"eng"}},
 {"index":4,"codec_name":"ass","codec_type":"subtitle","tags":{"language":"ENG","title":"Full"},"disposition":{"default":1}},
 {"index":5,"codec_name":"subrip","codec_type":"subtitle","tags":{"language":"jpn"}}
]}`

func TestParseProbeAndPickTrack(t *testing.T) {
	tracks, err := parseProbe([]byte(probeJSON))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if len(tracks) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(tracks))
	}
	if tracks[2].Position != 2 || tracks[2].Index != 4 || tracks[2].Language != "eng" || !tracks[2].Default {
		t.Fatalf("unexpected track %+v", tracks[2])
	}
	if tracks[1].Textual() {
		t.Fatal("PGS track must not be textual")
	}

	got, ok := PickTrack(tracks, "en", "eng")
	if !ok || got.Index != 4 {
		t.Fatalf("expected full English track, got %+v ok=%v", got, ok)
	}
	got, ok = PickTrack(tracks[:2], "eng")
	if !ok || got.Index != 2 {
		t.Fatalf("expected forced track as last resort, got %+v ok=%v", got, ok)
	}
	if _, ok := PickTrack(tracks, "fre"); ok {
		t.Fatal("expected no French track")
	}
}

func TestParseProbeRejectsGarbage(t *testing.T) {
	if _, err := parseProbe([]byte("nope")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExtractTrackRunsFFmpeg(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho \"$@\" > \"" + filepath.Join(dir, "args") + "\"\nfor last; do :; done\nprintf '1\\n00:00:01,000 --> 00:00:02,000\\nHi\\n' > \"$last\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	dest := filepath.Join(dir, "out", "track.srt")
	if err := ExtractTrack(context.Background(), stub, "/videos/movie.mkv", 2, dest); err != nil {
		t.Fatalf("ExtractTrack: %v", err)
	}
	args, err := os.ReadFile(filepath.Join(dir, "args"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if !strings.Contains(string(args), "-map 0:s:2") || !strings.Contains(string(args), "-c:s srt") {
		t.Fatalf("unexpected ffmpeg args %q", args)
	}
	data, err := os.ReadFile(dest)
	if err != nil || !strings.Contains(string(data), "Hi") {
		t.Fatalf("unexpected output %q err=%v", data, err)
	}
}

func TestExtractTrackReportsEmptyOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nfor last; do :; done\n: > \"$last\"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if err := ExtractTrack(context.Background(), stub, "movie.mkv", 0, filepath.Join(dir, "t.srt")); err == nil {
		t.Fatal("expected error for empty output")
	}
	if err := ExtractTrack(context.Background(), stub, "movie.mkv", -1, filepath.Join(dir, "t.srt")); err == nil {
		t.Fatal("expected error for negative track")
	}
}

func TestFindSubtitlePrefersExactLanguage(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"abc.en-GB.srt", "abc.en.srt", "abc.ja.srt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := findSubtitle(dir, "en")
	if err != nil || filepath.Base(got) != "abc.en.srt" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if err := os.Remove(filepath.Join(dir, "abc.en.srt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err = findSubtitle(dir, "en")
	if err != nil || filepath.Base(got) != "abc.en-GB.srt" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if _, err := findSubtitle(t.TempDir(), "en"); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestFetchRemoteRequiresURL(t *testing.T) {
	if _, err := FetchRemote(context.Background(), "", " ", "en", t.TempDir()); err == nil {
		t.Fatal("expected error for empty url")
	}
}
