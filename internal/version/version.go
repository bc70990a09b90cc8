// Package version reports the shelltest build version.
// Version, GitCommit and BuildDate can be injected with -ldflags at build time.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// Info represents comprehensive version information
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
	Platform  string
	SemVer    *semver.Version
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetInfo returns comprehensive version information
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}

	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// GetDetailedVersion returns multi-line version information for bug reports
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("shelltest v%s (error: %v)", Version, err)
	}

	lines := []string{
		fmt.Sprintf("shelltest v%s", info.Version),
		fmt.Sprintf("Git Commit: %s", info.GitCommit),
		fmt.Sprintf("Build Date: %s", info.BuildDate),
	}
	if IsDevelopment() {
		lines = append(lines, "Build: development")
	}
	if meta := info.SemVer.Metadata(); meta != "" {
		lines = append(lines, fmt.Sprintf("Build Metadata: %s", meta))
	}
	if pre := info.SemVer.Prerelease(); pre != "" {
		lines = append(lines, fmt.Sprintf("Prerelease: %s", pre))
	}
	lines = append(lines,
		fmt.Sprintf("Go Version: %s", info.GoVersion),
		fmt.Sprintf("Platform: %s", info.Platform),
	)
	return strings.Join(lines, "\n")
}

// IsDevelopment returns true if this appears to be a development build
func IsDevelopment() bool {
	return GitCommit == "unknown" || BuildDate == "unknown"
}

// SetBuildInfo sets build information (used for testing)
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
