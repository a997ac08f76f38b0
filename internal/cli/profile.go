package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/emload/internal/csvfile"
	"github.com/vvka-141/emload/internal/profile"
	"github.com/vvka-141/emload/pkg/emload"
)

var profileCmd = &cobra.Command{
	Use:   "profile [csv_path]",
	Short: "Report data-quality issues in a CSV file without loading it",
	Long: `Profile reads the CSV and reports what a load would encounter: missing
values per column, duplicate employee IDs, unparseable dates, non-numeric
salaries, and the distinct raw department spellings. No database needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	path := emload.DefaultCSVPath
	if len(args) > 0 {
		path = args[0]
	} else if projectCfg, err := loadProjectConfig(getVerboseFlag(cmd)); err == nil && projectCfg != nil && projectCfg.CSV.Path != "" {
		path = projectCfg.CSV.Path
	}

	reader, err := csvfile.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	report, err := profile.Analyze(reader)
	if err != nil {
		return err
	}

	report.Render(os.Stdout)
	return nil
}
