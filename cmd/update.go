package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/cloudconv"

var (
	updateCheckOnly bool
	updateForce     bool
)

// updateCmd replaces the running binary with the latest GitHub release
var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update cloudconv to the latest release",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	RunE:        runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only report whether an update is available")
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "update development builds too")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := parseVersion(appVersion)
	if err != nil && !updateForce {
		return fmt.Errorf("cannot update development build %q (use --force)", appVersion)
	}
	currentVersion := "0.0.0"
	if err == nil {
		currentVersion = current.String()
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repositorySlug)
	}

	if latest.LessOrEqual(currentVersion) {
		logger.Info().Str("version", appVersion).Msg("Already up to date")
		return nil
	}

	if updateCheckOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n%s\n", appVersion, latest.Version(), latest.URL)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	logger.Info().
		Str("from", appVersion).
		Str("to", latest.Version()).
		Msg("Updated successfully")
	return nil
}
