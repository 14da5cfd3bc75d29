package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/prasdika/tabtrans/internal/jobs"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tabtrans [input.xlsx]",
		Short: "Batch spreadsheet column translator",
		Long: `tabtrans translates text columns of xlsx spreadsheets between
natural languages using a generative-language API.

Distinct column values are translated once and mapped back onto every
row, progress is checkpointed to a temporary sibling file, and each
configured job fails independently of the others.

Examples:
  tabtrans data.xlsx -c title,description    # Translate one file ad hoc
  tabtrans --config jobs.yaml                # Run the configured job list
  tabtrans --config jobs.yaml --cron "0 2 * * *"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, args)
		},
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.tabtrans.yaml)")

	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "d", flags.OutputDir, "Directory for derived output paths")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output path for the ad-hoc job (default derived from input)")
	cmd.Flags().StringSliceVarP(&flags.Columns, "columns", "c", nil, "Columns to translate for the ad-hoc job")
	cmd.Flags().StringVar(&flags.CronExpr, "cron", "", "Run the job list on this cron schedule instead of once")

	// Bind flags to viper
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("cron", cmd.Flags().Lookup("cron"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".tabtrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tabtrans")
	}

	viper.SetEnvPrefix("TABTRANS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadJobs reads the configured job list from the viper config file and
// fills in derived output paths where the config leaves them blank.
func LoadJobs(outputDir string, target language.Tag) ([]jobs.Job, error) {
	var jobList []jobs.Job
	if err := viper.UnmarshalKey("jobs", &jobList); err != nil {
		return nil, fmt.Errorf("invalid jobs configuration: %w", err)
	}

	for i, job := range jobList {
		if job.Input == "" {
			return nil, fmt.Errorf("job %d has no input path", i+1)
		}
		if len(job.Columns) == 0 {
			return nil, fmt.Errorf("job %d (%s) has no columns to translate", i+1, job.Input)
		}
		if job.Output == "" {
			jobList[i].Output = DerivedOutputPath(job.Input, outputDir, target)
		}
	}

	return jobList, nil
}

// DerivedOutputPath places the translated copy of input under
// outputDir, tagging the name with the target language:
// db/tasks.xlsx -> translated/tasks_id.xlsx.
func DerivedOutputPath(input, outputDir string, target language.Tag) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(outputDir, name+"_"+target.String()+ext)
}
