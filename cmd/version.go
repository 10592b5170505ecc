package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"text/tabwriter"

	"github.com/killallgit/blog-discovery-api/api/version"
	"github.com/spf13/cobra"
)

// Set at link time with -ldflags "-X github.com/killallgit/blog-discovery-api/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const unset = "unknown"

// buildReport describes the running binary
type buildReport struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Long: `Print the version, commit and build time of this binary together with
the Go toolchain and platform it was built for.

Binaries built without link-time version flags fall back to the VCS
stamps the Go toolchain embeds, when present.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
	versionCmd.Flags().Bool("json", false, "print build information as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	report := currentBuild(debug.ReadBuildInfo)
	out := cmd.OutOrStdout()

	if short, _ := cmd.Flags().GetBool("short"); short {
		_, err := fmt.Fprintf(out, "v%s\n", report.Version)
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(out, report.Name)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"version", "v" + report.Version},
		{"commit", report.Commit},
		{"built", report.BuiltAt},
		{"go", report.GoVersion},
		{"platform", report.Platform},
	} {
		fmt.Fprintf(w, "  %s\t%s\n", row[0], row[1])
	}
	return w.Flush()
}

// currentBuild merges the link-time variables with the toolchain's VCS
// stamps. Link-time values win.
func currentBuild(readInfo func() (*debug.BuildInfo, bool)) buildReport {
	report := buildReport{
		Name:      version.Name,
		Version:   Version,
		Commit:    GitCommit,
		BuiltAt:   BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := readInfo()
	if !ok {
		return report
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && report.Commit == unset:
			report.Commit = s.Value
		case s.Key == "vcs.time" && report.BuiltAt == unset:
			report.BuiltAt = s.Value
		}
	}
	return report
}
