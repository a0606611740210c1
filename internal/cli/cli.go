package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/OnRiseAI/content-automation/internal/config"
)

var (
	db  *gorm.DB
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "content-automation",
	Short: "Automated content pipeline for the medical tourism blog",
	Long: `content-automation runs the two batch jobs of the blog content pipeline:

  content-automation ingest-alerts   # scan the inbox for Google Alert emails
                                     # and store structured content ideas
  content-automation write-posts     # draft blog posts from the top pending
                                     # ideas

Both jobs are one-shot and meant to be invoked by a scheduler (e.g. cron).`,
	SilenceUsage: true,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, config *config.Config) {
	db = database
	cfg = config

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(writeCmd)
}
