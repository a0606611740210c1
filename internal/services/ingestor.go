package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/OnRiseAI/content-automation/internal/ai"
	"github.com/OnRiseAI/content-automation/internal/alerts"
	"github.com/OnRiseAI/content-automation/internal/config"
	"github.com/OnRiseAI/content-automation/internal/content"
	"github.com/OnRiseAI/content-automation/internal/database/models"
	"github.com/OnRiseAI/content-automation/internal/mailbox"
)

var (
	// ErrMailSession indicates the mailbox could not be opened or searched
	ErrMailSession = errors.New("mail session failed")
	// ErrIdeaParse indicates the model's idea response violated the schema
	ErrIdeaParse = errors.New("idea response parse failed")
)

// ideaSlugMaxLen bounds content idea slugs
const ideaSlugMaxLen = 100

const ideaSystemPrompt = `You are a content strategist for a medical tourism blog. ` +
	`You turn news alerts into actionable blog content ideas. ` +
	`Always respond with a single JSON object and nothing else.`

// MailSession is the mailbox collaborator the ingestor drives.
// *mailbox.Session is the production implementation.
type MailSession interface {
	SelectMailbox(name string) error
	SearchUnseenFrom(sender string) ([]uint32, error)
	FetchRaw(uid uint32) ([]byte, error)
	MarkSeen(uid uint32) error
	Close() error
}

// MailDialer opens a new mail session
type MailDialer func() (MailSession, error)

// Completer is the text-completion collaborator both jobs call
type Completer interface {
	Complete(req ai.CompletionRequest) (string, error)
}

// IngestReport summarizes one ingestor run
type IngestReport struct {
	Processed int
	Skipped   int
	Errors    int
}

// AlertIngestor scans the inbox for Google Alert emails and stores
// content ideas derived from them
type AlertIngestor struct {
	db        *gorm.DB
	cfg       *config.Config
	dial      MailDialer
	completer Completer
	logs      *LogService
}

// NewAlertIngestor creates a new AlertIngestor instance
func NewAlertIngestor(db *gorm.DB, cfg *config.Config, dial MailDialer, completer Completer) *AlertIngestor {
	return &AlertIngestor{
		db:        db,
		cfg:       cfg,
		dial:      dial,
		completer: completer,
		logs:      NewLogService(db, cfg.LogLevel),
	}
}

// Run processes every unseen alert email once. Each message is marked seen
// whether or not idea generation succeeded, so no message is ever retried.
// Mailbox connection, select and search failures abort the whole run.
func (ing *AlertIngestor) Run() (IngestReport, error) {
	var report IngestReport

	session, err := ing.dial()
	if err != nil {
		ing.logs.LogError(models.LogModuleMail, "connect", "Failed to open mail session", map[string]interface{}{
			"error": err.Error(),
		})
		return report, fmt.Errorf("%w: %v", ErrMailSession, err)
	}
	defer session.Close()

	if err := session.SelectMailbox(ing.cfg.IMAPMailbox); err != nil {
		return report, fmt.Errorf("%w: %v", ErrMailSession, err)
	}

	uids, err := session.SearchUnseenFrom(ing.cfg.AlertSender)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrMailSession, err)
	}

	if len(uids) == 0 {
		ing.logs.LogInfo(models.LogModuleIngest, "run", "No unseen alert emails", nil)
		return report, nil
	}

	ing.logs.LogInfo(models.LogModuleIngest, "run", "Processing alert emails", map[string]interface{}{
		"count": len(uids),
	})

	for _, uid := range uids {
		ing.processMessage(session, uid, &report)
	}

	ing.logs.LogInfo(models.LogModuleIngest, "run", "Ingest run completed", map[string]interface{}{
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"errors":    report.Errors,
	})
	return report, nil
}

// processMessage handles one message end to end and always marks it seen
func (ing *AlertIngestor) processMessage(session MailSession, uid uint32, report *IngestReport) {
	defer func() {
		if err := session.MarkSeen(uid); err != nil {
			ing.logs.LogWarn(models.LogModuleMail, "mark_seen", "Failed to mark message seen", map[string]interface{}{
				"uid":   uid,
				"error": err.Error(),
			})
		}
	}()

	raw, err := session.FetchRaw(uid)
	if err != nil {
		report.Errors++
		ing.logs.LogError(models.LogModuleIngest, "fetch", "Failed to fetch message", map[string]interface{}{
			"uid":   uid,
			"error": err.Error(),
		})
		return
	}

	msg, err := mailbox.Parse(raw)
	if err != nil {
		report.Errors++
		ing.logs.LogError(models.LogModuleIngest, "parse", "Failed to parse message", map[string]interface{}{
			"uid":   uid,
			"error": err.Error(),
		})
		return
	}

	alert := alerts.Extract(alerts.Message{
		Subject:  msg.Subject,
		TextBody: msg.TextBody,
		HTMLBody: msg.HTMLBody,
		Date:     msg.Date,
	})

	// An empty query means the subject did not match the alert pattern:
	// not an error, just not a genuine alert
	if alert.Query == "" {
		report.Skipped++
		ing.logs.LogInfo(models.LogModuleIngest, "skip", "Not a genuine alert", map[string]interface{}{
			"uid":     uid,
			"subject": msg.Subject,
		})
		return
	}

	if err := ing.createIdea(alert); err != nil {
		report.Errors++
		ing.logs.LogError(models.LogModuleIngest, "idea", "Failed to create content idea", map[string]interface{}{
			"uid":         uid,
			"alert_query": alert.Query,
			"error":       err.Error(),
		})
		return
	}

	report.Processed++
	ing.logs.LogInfo(models.LogModuleIngest, "idea", "Content idea created", map[string]interface{}{
		"uid":         uid,
		"alert_query": alert.Query,
	})
}

// ideaPayload is the strict schema the model must return for an alert
type ideaPayload struct {
	SuggestedTitle    string          `json:"suggested_title"`
	TargetKeywords    []string        `json:"target_keywords"`
	TargetAudience    string          `json:"target_audience"`
	SearchIntent      string          `json:"search_intent"`
	SuggestedOutline  json.RawMessage `json:"suggested_outline"`
	WordCountEstimate int             `json:"word_count_estimate"`
	SEOPriorityScore  float64         `json:"seo_priority_score"`
	Topic             string          `json:"topic"`
	Urgency           string          `json:"urgency"`
}

// createIdea asks the model for a structured idea and inserts the row
func (ing *AlertIngestor) createIdea(alert alerts.Alert) error {
	alertJSON, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	userPrompt := fmt.Sprintf(`Create a blog content idea for a medical tourism blog based on this Google Alert:

%s

Return a JSON object with exactly these fields:
suggested_title, target_keywords, target_audience, search_intent, suggested_outline, word_count_estimate, seo_priority_score, topic, urgency`, alertJSON)

	response, err := ing.completer.Complete(ai.CompletionRequest{
		SystemPrompt: ideaSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.7,
		MaxTokens:    1000,
		JSONMode:     true,
	})
	if err != nil {
		return err
	}

	var payload ideaPayload
	if err := json.Unmarshal([]byte(response), &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrIdeaParse, err)
	}
	if payload.SuggestedTitle == "" {
		return fmt.Errorf("%w: missing suggested_title", ErrIdeaParse)
	}

	keywordsJSON, _ := json.Marshal(payload.TargetKeywords)

	idea := &models.ContentIdea{
		Title:             payload.SuggestedTitle,
		Slug:              content.Slugify(payload.SuggestedTitle, ideaSlugMaxLen),
		Source:            models.IdeaSourceGoogleAlerts,
		Topic:             payload.Topic,
		Urgency:           payload.Urgency,
		AlertQuery:        alert.Query,
		AlertDate:         alert.Date,
		OriginalURL:       alert.URL,
		SourceTitle:       alert.Title,
		SourceSnippet:     alert.Snippet,
		TargetKeywords:    string(keywordsJSON),
		TargetAudience:    payload.TargetAudience,
		SearchIntent:      payload.SearchIntent,
		SuggestedTitle:    payload.SuggestedTitle,
		SuggestedOutline:  string(payload.SuggestedOutline),
		WordCountEstimate: payload.WordCountEstimate,
		SEOPriorityScore:  payload.SEOPriorityScore,
		Status:            string(models.IdeaStatusPending),
	}
	return ing.db.Create(idea).Error
}
