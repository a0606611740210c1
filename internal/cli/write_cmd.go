package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/OnRiseAI/content-automation/internal/ai"
	"github.com/OnRiseAI/content-automation/internal/services"
)

var writeCmd = &cobra.Command{
	Use:   "write-posts",
	Short: "Draft blog posts from the top pending content ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		completer := ai.NewClient(cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL)

		writer := services.NewPostWriter(db, cfg, completer)
		report, err := writer.Run()
		if err != nil {
			return err
		}

		log.Printf("Post writer finished: written=%d errors=%d",
			report.Written, report.Errors)
		return nil
	},
}
