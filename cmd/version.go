package cmd

import (
	"runtime"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	buildTime  = "unknown"
)

// SetVersion records the build metadata injected by the linker
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	rootCmd.Version = version
}

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Release   bool   `json:"release" yaml:"release"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := parseVersion(appVersion)
		return printResult(cmd.OutOrStdout(), versionInfo{
			Version:   appVersion,
			Release:   err == nil,
			BuildTime: buildTime,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		})
	},
}

// parseVersion accepts release tags such as "v1.2.3" or "1.2"
func parseVersion(v string) (semver.Version, error) {
	return semver.ParseTolerant(v)
}
