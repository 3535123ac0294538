package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vocabsub/internal/config"
	"vocabsub/internal/tokenizer"
)

// Requirement defines an external binary vocabsub may call.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configuration refers to. Media tools
// are optional: plain subtitle files need neither.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Media.FFmpegBinary,
			Description: "Extracts embedded subtitle tracks (--track)",
			Optional:    true,
		},
		{
			Name:        "FFprobe",
			Command:     Sidecar(cfg.Media.FFmpegBinary, "ffprobe").Command,
			Description: "Lists embedded subtitle tracks",
			Optional:    true,
		},
		{
			Name:        "yt-dlp",
			Command:     firstNonEmpty(cfg.Media.YtDlpBinary, "yt-dlp"),
			Description: "Downloads subtitles of remote videos (--url)",
			Optional:    true,
		},
	}
	if strings.EqualFold(cfg.Tokenizer.Backend, tokenizer.BackendProcess) {
		reqs = append(reqs, Requirement{
			Name:        "Tagger",
			Command:     cfg.Tokenizer.Command,
			Description: "External tokenizer process",
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired reports the names of unavailable non-optional binaries.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
