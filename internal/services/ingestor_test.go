package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnRiseAI/content-automation/internal/ai"
	"github.com/OnRiseAI/content-automation/internal/database/models"
)

func newTestIngestor(t *testing.T, session MailSession, completer Completer) (*AlertIngestor, *testDBHandle) {
	t.Helper()
	db := setupTestDB(t)
	dial := func() (MailSession, error) { return session, nil }
	ing := NewAlertIngestor(db, testConfig(), dial, completer)
	return ing, &testDBHandle{db}
}

func TestIngestorEndToEnd(t *testing.T) {
	session := newFakeSession(map[uint32][]byte{
		7: alertEmail("Google Alert for: dental implants"),
	})
	completer := completerFunc(func(req ai.CompletionRequest) (string, error) {
		assert.True(t, req.JSONMode, "idea generation must request JSON mode")
		return ideaJSON, nil
	})
	ing, h := newTestIngestor(t, session, completer)

	report, err := ing.Run()
	require.NoError(t, err)
	assert.Equal(t, IngestReport{Processed: 1}, report)

	idea := h.singleIdea(t)
	assert.Equal(t, "dental implants", idea.AlertQuery)
	assert.Equal(t, "New Dental Clinic", idea.SourceTitle)
	assert.Equal(t, "A new clinic opened...", idea.SourceSnippet)
	assert.Equal(t, "https://news.example.com/dental-clinic", idea.OriginalURL)
	assert.Equal(t, models.IdeaSourceGoogleAlerts, idea.Source)
	assert.Equal(t, string(models.IdeaStatusPending), idea.Status)
	assert.Equal(t, "Dental Implants Abroad: What Patients Should Know", idea.SuggestedTitle)
	assert.Equal(t, "dental-implants-abroad-what-patients-should-know", idea.Slug)
	assert.Equal(t, `["dental implants abroad","dental tourism"]`, idea.TargetKeywords)
	assert.Equal(t, 1800, idea.WordCountEstimate)
	assert.Equal(t, 8.5, idea.SEOPriorityScore)
	assert.Equal(t, "Dental Tourism", idea.Topic)

	assert.True(t, session.seen[7], "message must be marked seen")
	assert.True(t, session.closed, "session must be closed")
}

func TestIngestorSkipsNonAlert(t *testing.T) {
	session := newFakeSession(map[uint32][]byte{
		3: alertEmail("Your weekly digest"),
	})
	completer := completerFunc(func(req ai.CompletionRequest) (string, error) {
		t.Fatal("completer must not be called for non-alert messages")
		return "", nil
	})
	ing, h := newTestIngestor(t, session, completer)

	report, err := ing.Run()
	require.NoError(t, err)
	assert.Equal(t, IngestReport{Skipped: 1}, report)
	assert.Zero(t, h.ideaCount(t))
	assert.True(t, session.seen[3], "skipped messages are still marked seen")
}

func TestIngestorCompletionFailureStillMarksSeen(t *testing.T) {
	session := newFakeSession(map[uint32][]byte{
		9: alertEmail("Google Alert for: hair transplant"),
	})
	completer := completerFunc(func(req ai.CompletionRequest) (string, error) {
		return "", errors.New("upstream unavailable")
	})
	ing, h := newTestIngestor(t, session, completer)

	report, err := ing.Run()
	require.NoError(t, err)
	assert.Equal(t, IngestReport{Errors: 1}, report)
	assert.Zero(t, h.ideaCount(t))
	assert.True(t, session.seen[9], "failed messages are still marked seen")
}

func TestIngestorMalformedIdeaJSON(t *testing.T) {
	session := newFakeSession(map[uint32][]byte{
		4: alertEmail("Google Alert for: lasik"),
	})
	completer := completerFunc(func(req ai.CompletionRequest) (string, error) {
		return "not json at all", nil
	})
	ing, h := newTestIngestor(t, session, completer)

	report, err := ing.Run()
	require.NoError(t, err)
	assert.Equal(t, IngestReport{Errors: 1}, report)
	assert.Zero(t, h.ideaCount(t))
	assert.True(t, session.seen[4])
}

func TestIngestorZeroUnseenIsNoOp(t *testing.T) {
	session := newFakeSession(map[uint32][]byte{})
	completer := completerFunc(func(req ai.CompletionRequest) (string, error) {
		t.Fatal("completer must not be called")
		return "", nil
	})

	// INFO level persists ambient log rows; the content tables must still
	// stay untouched on a zero-match run
	db := setupTestDB(t)
	cfg := testConfig()
	cfg.LogLevel = "INFO"
	dial := func() (MailSession, error) { return session, nil }
	ing := NewAlertIngestor(db, cfg, dial, completer)
	h := &testDBHandle{db}

	report, err := ing.Run()
	require.NoError(t, err)
	assert.Equal(t, IngestReport{}, report)
	assert.Zero(t, h.ideaCount(t))

	var posts int64
	require.NoError(t, db.Model(&models.BlogPost{}).Count(&posts).Error)
	assert.Zero(t, posts)
}

func TestIngestorDialFailureIsFatal(t *testing.T) {
	db := setupTestDB(t)
	dial := func() (MailSession, error) { return nil, errors.New("connection refused") }
	ing := NewAlertIngestor(db, testConfig(), dial, completerFunc(nil))

	_, err := ing.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMailSession))
}
