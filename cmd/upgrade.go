package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/qbitwatch"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("qbitwatch %s (built %s)\n", version, buildTime)
	},
}

// upgradeCmd represents the upgrade command
var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade qbitwatch to the latest release",
	RunE:  runSelfUpgrade,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(upgradeCmd)
}

func runSelfUpgrade(cmd *cobra.Command, args []string) error {
	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot upgrade a non-release build (version %q)", version)
	}

	ctx := context.Background()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repositorySlug)
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("failed to parse latest version %q: %w", latest.Version(), err)
	}

	if latestVersion.LTE(current) {
		fmt.Printf("✓ Already up to date (%s)\n", version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	fmt.Printf("Upgrading %s → %s...\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Upgraded to %s\n", latest.Version())
	return nil
}
