// Package deps reports the availability of external binaries subfetch
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"subfetch/internal/config"
	"subfetch/internal/services"
)

// Requirement defines an external dependency subfetch relies on.
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

// Requirements lists the external binaries for the given configuration.
func Requirements(cfg *config.Config) []Requirement {
	command := "ffmpeg"
	if cfg != nil && strings.TrimSpace(cfg.FFmpegCommand) != "" {
		command = cfg.FFmpegCommand
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     command,
			Description: "Muxes the subtitle track into the video container",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", command)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// EnsureRequired returns an error for the first unavailable non-optional
// dependency. A missing required binary is a hard failure before the
// pipeline starts any network work.
func EnsureRequired(statuses []Status) error {
	for _, status := range statuses {
		if status.Optional || status.Available {
			continue
		}
		return services.Wrap(services.ErrConfiguration, "deps", "preflight",
			fmt.Sprintf("%s unavailable: %s", status.Name, status.Detail), nil)
	}
	return nil
}
