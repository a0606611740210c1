package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/OnRiseAI/content-automation/internal/ai"
	"github.com/OnRiseAI/content-automation/internal/config"
	"github.com/OnRiseAI/content-automation/internal/content"
	"github.com/OnRiseAI/content-automation/internal/database/models"
)

const (
	// writerBatchSize is the maximum number of ideas one run drafts
	writerBatchSize = 3
	// defaultWordCount is used when an idea carries no estimate
	defaultWordCount = 1500
	// postSlugMaxLen bounds blog post slugs
	postSlugMaxLen = 80
	// metaContentPreview is how much of the body the meta prompt sees
	metaContentPreview = 500

	// AuthorName is attached to every generated draft
	AuthorName = "OnRise AI Team"
)

const postSystemPromptFormat = `You are an expert medical tourism content writer. Write a complete blog post in markdown.
Requirements:
- Warm, reassuring and factual tone; no medical advice disclaimers beyond one short closing note
- Structure with markdown headings, short paragraphs and bullet lists where useful
- Naturally weave in the target keywords
- Approximately %d words
- Output the markdown body only, no surrounding commentary`

const metaSystemPrompt = `You write SEO meta descriptions. Respond with a single meta description of at most 155 characters. Do not use quotes.`

// WriteReport summarizes one writer run
type WriteReport struct {
	Written int
	Errors  int
}

// PostWriter drafts blog posts from the highest-priority pending ideas
type PostWriter struct {
	db        *gorm.DB
	completer Completer
	logs      *LogService
}

// NewPostWriter creates a new PostWriter instance
func NewPostWriter(db *gorm.DB, cfg *config.Config, completer Completer) *PostWriter {
	return &PostWriter{
		db:        db,
		completer: completer,
		logs:      NewLogService(db, cfg.LogLevel),
	}
}

// Run drafts up to writerBatchSize posts from pending ideas ordered by
// seo_priority_score descending. A failing idea is logged and left pending;
// the run continues with the next one.
func (w *PostWriter) Run() (WriteReport, error) {
	var report WriteReport

	var ideas []models.ContentIdea
	err := w.db.
		Where("status = ?", string(models.IdeaStatusPending)).
		Order("seo_priority_score DESC").
		Limit(writerBatchSize).
		Find(&ideas).Error
	if err != nil {
		return report, fmt.Errorf("failed to select pending ideas: %v", err)
	}

	if len(ideas) == 0 {
		w.logs.LogInfo(models.LogModuleWriter, "run", "No pending ideas", nil)
		return report, nil
	}

	w.logs.LogInfo(models.LogModuleWriter, "run", "Drafting posts", map[string]interface{}{
		"count": len(ideas),
	})

	for i := range ideas {
		if err := w.writePost(&ideas[i]); err != nil {
			report.Errors++
			w.logs.LogError(models.LogModuleWriter, "draft", "Failed to draft post", map[string]interface{}{
				"idea_id": ideas[i].ID,
				"title":   ideas[i].SuggestedTitle,
				"error":   err.Error(),
			})
			continue
		}
		report.Written++
		w.logs.LogInfo(models.LogModuleWriter, "draft", "Draft post created", map[string]interface{}{
			"idea_id": ideas[i].ID,
			"title":   ideas[i].SuggestedTitle,
		})
	}

	w.logs.LogInfo(models.LogModuleWriter, "run", "Writer run completed", map[string]interface{}{
		"written": report.Written,
		"errors":  report.Errors,
	})
	return report, nil
}

// writePost generates content and metadata for one idea, inserts the draft
// and marks the idea processed. The insert and the status update are not
// wrapped in a transaction: an update failure after a successful insert
// leaves the idea pending with a draft already written.
func (w *PostWriter) writePost(idea *models.ContentIdea) error {
	body, err := w.generateBody(idea)
	if err != nil {
		return err
	}

	meta, err := w.generateMetaDescription(idea.SuggestedTitle, body)
	if err != nil {
		return err
	}

	post := &models.BlogPost{
		Title:           idea.SuggestedTitle,
		Slug:            content.Slugify(idea.SuggestedTitle, postSlugMaxLen),
		Excerpt:         content.Excerpt(body),
		Content:         body,
		MetaTitle:       idea.SuggestedTitle,
		MetaDescription: strings.TrimSpace(meta),
		Keywords:        idea.TargetKeywords,
		Category:        idea.Topic,
		ReadingTime:     content.ReadingTime(body),
		AuthorName:      AuthorName,
		Status:          models.PostStatusDraft,
		SourceIdeaID:    idea.ID,
	}
	if idea.Topic != "" {
		post.CategorySlug = content.Slugify(idea.Topic, 0)
	}

	if err := w.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to insert blog post: %v", err)
	}

	err = w.db.Model(&models.ContentIdea{}).
		Where("id = ?", idea.ID).
		Update("status", string(models.IdeaStatusProcessed)).Error
	if err != nil {
		return fmt.Errorf("failed to mark idea processed: %v", err)
	}
	return nil
}

// generateBody asks the model for the full markdown post
func (w *PostWriter) generateBody(idea *models.ContentIdea) (string, error) {
	wordCount := idea.WordCountEstimate
	if wordCount <= 0 {
		wordCount = defaultWordCount
	}

	userPrompt := fmt.Sprintf(`Write the blog post.

Title: %s
Topic: %s
Target keywords: %s
Target audience: %s
Search intent: %s
Outline: %s`,
		idea.SuggestedTitle,
		idea.Topic,
		strings.Join(decodeKeywords(idea.TargetKeywords), ", "),
		idea.TargetAudience,
		idea.SearchIntent,
		idea.SuggestedOutline,
	)

	body, err := w.completer.Complete(ai.CompletionRequest{
		SystemPrompt: fmt.Sprintf(postSystemPromptFormat, wordCount),
		UserPrompt:   userPrompt,
		Temperature:  0.7,
		MaxTokens:    4000,
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

// generateMetaDescription asks the model for the SEO meta description.
// The 155 character limit is a prompt instruction only, not enforced here.
func (w *PostWriter) generateMetaDescription(title, body string) (string, error) {
	preview := body
	if runes := []rune(preview); len(runes) > metaContentPreview {
		preview = string(runes[:metaContentPreview])
	}

	userPrompt := fmt.Sprintf("Title: %s\n\nContent:\n%s", title, preview)

	meta, err := w.completer.Complete(ai.CompletionRequest{
		SystemPrompt: metaSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.5,
		MaxTokens:    100,
	})
	if err != nil {
		return "", err
	}
	return meta, nil
}

// decodeKeywords unpacks the JSON keyword array stored on the idea row
func decodeKeywords(stored string) []string {
	var keywords []string
	if err := json.Unmarshal([]byte(stored), &keywords); err != nil {
		return nil
	}
	return keywords
}
