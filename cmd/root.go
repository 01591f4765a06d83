package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"exifname/internal"
)

// Version is overridden at startup from the embedded VERSION file.
var Version = "dev"

var (
	configFlag  string
	jobsFlag    int
	quietFlag   bool
	yesFlag     bool
	dryRunFlag  bool
	formatFlag  string
	backendFlag string
)

var rootCmd = &cobra.Command{
	Use:   "exifname [flags] TARGET TIMEZONE",
	Short: "Rename image files after their capture time",
	Long: `Rename image files after the original capture time stored in their
metadata. TARGET is a file or a directory whose immediate entries are
processed; TIMEZONE is the zone the camera clock was set to, e.g.
Europe/Rome or UTC. Nothing is touched before you confirm.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runRename,
}

func Execute() error {
	return rootCmd.Execute()
}

// ApplyVersion pushes the current Version into the Cobra command.
func ApplyVersion() {
	rootCmd.Version = Version
}

func init() {
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to a JSON config file")
	rootCmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "Worker count for directory targets (0 = one per CPU)")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress informational output")
	rootCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Report planned renames without touching anything")
	rootCmd.Flags().StringVar(&formatFlag, "format", "", "Filename time layout, overrides the configured one")
	rootCmd.Flags().StringVar(&backendFlag, "backend", "", "Metadata backend: exiv2, exiftool or goexif")
	ApplyVersion()
}

func runRename(cmd *cobra.Command, args []string) error {
	target := args[0]
	tzName := args[1]

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", tzName, err)
	}

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	// Load config
	conf, err := internal.LoadConfig(configFlag)
	if err != nil {
		return err
	}
	if formatFlag != "" {
		conf.FilenameFormat = formatFlag
	}
	if backendFlag != "" {
		conf.Backend = backendFlag
	}

	internal.SetLogger(internal.NewLogger(quietFlag))

	reader, err := internal.NewMetadataReader(conf.Backend)
	if err != nil {
		return err
	}
	if c, ok := reader.(io.Closer); ok {
		defer c.Close()
	}

	plan, stats, err := internal.PlanRenames(cmd.Context(), reader, conf, target, loc, internal.PlanOptions{
		Jobs:  jobsFlag,
		Quiet: quietFlag,
	})
	if err != nil {
		return err
	}

	if err := internal.CheckConflicts(plan); err != nil {
		return err
	}

	if _, err := internal.Commit(plan, internal.CommitOptions{
		DryRun:    dryRunFlag,
		AssumeYes: yesFlag,
		Quiet:     quietFlag,
	}); err != nil {
		return err
	}

	if stats.Failed > 0 {
		return internal.ErrPartial
	}
	return nil
}
