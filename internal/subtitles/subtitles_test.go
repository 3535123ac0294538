package subtitles

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSRT = "\ufeff1\r\n00:00:01,000 --> 00:00:03,500\r\nThe cat sat on the mat.\r\n\r\n7\r\n00:00:04,250 --> 00:00:06,000 X1:10 X2:20\r\n<i>Nevertheless,</i>\r\nshe persevered.\r\n\r\n\r\n"

const sampleASS = `[Script Info]
Title: demo
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Default,Arial,20

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Comment: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,note
Dialogue: 0,0:00:01.00,0:00:03.50,Default,,0,0,0,,{\i1}Nevertheless{\i0}, she said, "wait".
Dialogue: 0,1:02:03.04,1:02:05.00,Default,Bob,0,0,0,,Line one\NLine two

[Fonts]
fontname: x.ttf
`

func TestParseSRT(t *testing.T) {
	doc, err := ParseSRT([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(doc.Events))
	}
	first, second := doc.Events[0], doc.Events[1]
	if first.Index != 1 || first.StartMs != 1000 || first.EndMs != 3500 || first.Text != "The cat sat on the mat." {
		t.Fatalf("unexpected first event %+v", first)
	}
	if second.Index != 2 || second.StartMs != 4250 || second.EndMs != 6000 {
		t.Fatalf("unexpected second event timing %+v", second)
	}
	if second.Text != "<i>Nevertheless,</i>\nshe persevered." {
		t.Fatalf("unexpected second event text %q", second.Text)
	}
}

func TestEncodeSRTRoundTrip(t *testing.T) {
	doc, err := ParseSRT([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	out := string(EncodeSRT(doc))
	want := "1\n00:00:01,000 --> 00:00:03,500\nThe cat sat on the mat.\n\n2\n00:00:04,250 --> 00:00:06,000\n<i>Nevertheless,</i>\nshe persevered.\n"
	if out != want {
		t.Fatalf("unexpected encoding:\n%q\nwant\n%q", out, want)
	}
	again, err := ParseSRT([]byte(out))
	if err != nil || len(again.Events) != 2 || again.Events[1].Text != doc.Events[1].Text {
		t.Fatalf("round trip mismatch: %v %+v", err, again)
	}
}

func TestParseSRTRejectsBadTimestamp(t *testing.T) {
	if _, err := ParseSRT([]byte("1\n00:00:xx,000 --> 00:00:02,000\nhi\n")); err == nil {
		t.Fatal("expected timestamp error")
	}
}

func TestParseASS(t *testing.T) {
	doc, err := ParseASS([]byte(sampleASS))
	if err != nil {
		t.Fatalf("ParseASS: %v", err)
	}
	if len(doc.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(doc.Events))
	}
	speech := doc.Speech()
	if len(speech) != 2 {
		t.Fatalf("expected 2 dialogue events, got %d", len(speech))
	}
	first := speech[0]
	if first.StartMs != 1000 || first.EndMs != 3500 || first.Field("Style") != "Default" {
		t.Fatalf("unexpected first dialogue %+v", first)
	}
	if first.Text != `{\i1}Nevertheless{\i0}, she said, "wait".` {
		t.Fatalf("text with commas must be kept whole, got %q", first.Text)
	}
	second := speech[1]
	if second.StartMs != 3723040 || second.Field("name") != "Bob" || second.Text != `Line one\NLine two` {
		t.Fatalf("unexpected second dialogue %+v", second)
	}
	if len(doc.Header) == 0 || doc.Header[0] != "[Script Info]" {
		t.Fatalf("header not preserved: %v", doc.Header)
	}
	if len(doc.Trailer) != 2 || doc.Trailer[0] != "[Fonts]" {
		t.Fatalf("trailer not preserved: %v", doc.Trailer)
	}
}

func TestEncodeASSRoundTrip(t *testing.T) {
	doc, err := ParseASS([]byte(sampleASS))
	if err != nil {
		t.Fatalf("ParseASS: %v", err)
	}
	out, err := EncodeASS(doc)
	if err != nil {
		t.Fatalf("EncodeASS: %v", err)
	}
	if string(out) != sampleASS {
		t.Fatalf("round trip changed the file:\n%s", out)
	}
}

func TestEncodeASSRejectsRawNewline(t *testing.T) {
	doc := &Document{Format: FormatASS, Events: []Event{{Index: 1, Kind: "Dialogue", Text: "a\nb"}}}
	if _, err := EncodeASS(doc); err == nil {
		t.Fatal("expected error for raw newline")
	}
}

func TestASSTimestamps(t *testing.T) {
	cases := map[string]int64{
		"0:00:01.00":  1000,
		"0:00:01.5":   1500,
		"0:00:01.123": 1123,
		"1:00:00.99":  3600990,
	}
	for input, want := range cases {
		got, err := parseASSTimestamp(input)
		if err != nil || got != want {
			t.Fatalf("parseASSTimestamp(%q) = %d, %v; want %d", input, got, err, want)
		}
	}
	if got := formatASSTimestamp(3723040); got != "1:02:03.04" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestDetectFormat(t *testing.T) {
	if f, _ := DetectFormat("x.SRT", nil); f != FormatSRT {
		t.Fatalf("expected srt, got %q", f)
	}
	if f, _ := DetectFormat("x.ssa", nil); f != FormatASS {
		t.Fatalf("expected ass, got %q", f)
	}
	if f, _ := DetectFormat("track", []byte(sampleASS)); f != FormatASS {
		t.Fatalf("expected sniffed ass, got %q", f)
	}
	if f, _ := DetectFormat("track", []byte(sampleSRT)); f != FormatSRT {
		t.Fatalf("expected sniffed srt, got %q", f)
	}
	if _, err := DetectFormat("track.txt", []byte("hello")); err == nil {
		t.Fatal("expected detection error")
	}
}

func TestValidate(t *testing.T) {
	doc := &Document{Format: FormatSRT, Events: []Event{
		{Index: 1, StartMs: 5000, EndMs: 4000, Text: "a"},
		{Index: 2, StartMs: 1000, EndMs: 2000, Text: "b"},
	}}
	issues := Validate(doc)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", issues)
	}
	if issues := Validate(&Document{Format: FormatSRT}); len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Fatalf("unexpected issues %v", issues)
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.srt")
	doc, err := ParseSRT([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if err := WriteFile(context.Background(), path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(back.Events) != 2 || back.Format != FormatSRT {
		t.Fatalf("unexpected document %+v", back)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}
