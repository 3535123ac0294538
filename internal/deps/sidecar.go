package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Sidecar resolves a companion binary of primaryCommand, such as the ffprobe
// shipped with an ffmpeg build. A binary in the same directory as the
// resolved primary wins; otherwise name is looked up on PATH.
func Sidecar(primaryCommand, name string) Status {
	result := Status{Name: name}

	primary := strings.TrimSpace(primaryCommand)
	if primary != "" {
		if resolved, err := exec.LookPath(primary); err == nil {
			candidate := sidecarCandidate(resolved, name)
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		result.Command = path
		result.Available = true
		return result
	}

	result.Command = name
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", name)
	return result
}

func sidecarCandidate(primaryPath, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(primaryPath), name)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
