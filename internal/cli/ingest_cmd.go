package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/OnRiseAI/content-automation/internal/ai"
	"github.com/OnRiseAI/content-automation/internal/mailbox"
	"github.com/OnRiseAI/content-automation/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest-alerts",
	Short: "Scan the inbox for Google Alert emails and store content ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		completer := ai.NewClient(cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL)
		dial := func() (services.MailSession, error) {
			return mailbox.Dial(cfg)
		}

		ingestor := services.NewAlertIngestor(db, cfg, dial, completer)
		report, err := ingestor.Run()
		if err != nil {
			return err
		}

		log.Printf("Alert ingest finished: processed=%d skipped=%d errors=%d",
			report.Processed, report.Skipped, report.Errors)
		return nil
	},
}
