package templates

import (
	"strings"
	"testing"

	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://app.example.com"

// minimalPayloads holds the smallest valid payload for every notification
// type.
var minimalPayloads = map[models.NotificationType]Payload{
	models.TypeWelcome:                     {},
	models.TypeApplicationSubmitted:        {"jobTitle": "Backend Engineer", "company": "Acme"},
	models.TypeApplicationStatusUpdate:     {"jobTitle": "Backend Engineer", "company": "Acme", "status": "In review"},
	models.TypeInterviewScheduled:          {"jobTitle": "Backend Engineer", "company": "Acme", "date": "2026-09-10", "time": "14:00"},
	models.TypeInterviewReminder24h:        {"jobTitle": "Backend Engineer", "company": "Acme", "date": "2026-09-10", "time": "14:00"},
	models.TypeApplicationFollowupReminder: {"jobTitle": "Backend Engineer", "company": "Acme", "daysSinceApplied": 7},
	models.TypeJobMatchAlert:               {"matchCount": 3},
	models.TypeAgencyJobPosted:             {"jobTitle": "Data Analyst", "agencyName": "TalentBridge"},
	models.TypeCompanyInvitation:           {"companyName": "Acme", "inviterName": "Sam Lee"},
	models.TypeMentorshipRequestReceived:   {"menteeName": "Priya"},
	models.TypeMentorshipRequestAccepted:   {"mentorName": "Jordan"},
	models.TypeRelationshipApproved:        {"coachName": "Alex"},
	models.TypeRelationshipDeclined:        {"coachName": "Alex"},
	models.TypeSessionScheduled:            {"coachName": "Alex", "date": "2026-09-12", "time": "10:00"},
	models.TypeSessionReminder:             {"coachName": "Alex", "date": "2026-09-12", "time": "10:00"},
	models.TypeSessionCancelled:            {"coachName": "Alex", "date": "2026-09-12"},
	models.TypeFeedbackRequest:             {"coachName": "Alex"},
	models.TypeResumeAnalysisComplete:      {"score": 82},
	models.TypeAchievementUnlocked:         {"achievementName": "First Application"},
	models.TypeBadgeAwarded:                {"badgeName": "Networker"},
	models.TypeLearningStreakMilestone:     {"days": 7},
	models.TypeGoalProgressUpdate:          {"goalTitle": "Land a PM role", "progress": 60},
	models.TypeWeeklyDigest:                {},
	models.TypeABTestResults:               {"testName": "Resume headline v2"},
	models.TypeCommunityReply:              {"replierName": "Casey", "postTitle": "Negotiation tips?"},
}

func TestCatalogueCoversEveryType(t *testing.T) {
	registered := Registered()
	assert.Len(t, registered, len(models.AllTypes))
	for _, typ := range models.AllTypes {
		_, err := RequiredFields(typ)
		assert.NoError(t, err, "type %s has no catalogue entry", typ)
	}
}

func TestRenderTotality(t *testing.T) {
	for _, typ := range models.AllTypes {
		payload, ok := minimalPayloads[typ]
		require.True(t, ok, "no minimal payload defined for %s", typ)

		email, err := Render(typ, payload, "Jo", testBaseURL)
		require.NoError(t, err, "type %s", typ)
		assert.NotEmpty(t, email.Subject, "type %s", typ)
		assert.NotEmpty(t, email.HTML, "type %s", typ)
		assert.Contains(t, email.HTML, testBaseURL, "type %s CTA must link into the app", typ)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	payload := minimalPayloads[models.TypeInterviewScheduled]

	first, err := Render(models.TypeInterviewScheduled, payload, "Jo", testBaseURL)
	require.NoError(t, err)
	second, err := Render(models.TypeInterviewScheduled, payload, "Jo", testBaseURL)
	require.NoError(t, err)

	assert.Equal(t, first.Subject, second.Subject)
	assert.Equal(t, first.HTML, second.HTML)
}

func TestRenderUnknownType(t *testing.T) {
	_, err := Render("no_such_type", Payload{}, "Jo", testBaseURL)
	require.Error(t, err)

	std := errors.AsStandard(err)
	assert.Equal(t, errors.ErrCodeTemplateNotFound, std.Code)
}

func TestRenderMissingRequiredFields(t *testing.T) {
	_, err := Render(models.TypeInterviewScheduled, Payload{"jobTitle": "Engineer"}, "Jo", testBaseURL)
	require.Error(t, err)

	std := errors.AsStandard(err)
	assert.Equal(t, errors.ErrCodePayloadValidationFailed, std.Code)
	assert.Contains(t, std.Details, "company")
	assert.Contains(t, std.Details, "date")
}

func TestWelcomeEmail(t *testing.T) {
	email, err := Render(models.TypeWelcome, Payload{}, "Jo", testBaseURL)
	require.NoError(t, err)

	assert.Contains(t, email.Subject, "Welcome")
	assert.Contains(t, email.HTML, testBaseURL+"/dashboard")
	assert.Contains(t, email.HTML, "Hi Jo,")
}

func TestWelcomeEmailDefaultsRecipientName(t *testing.T) {
	email, err := Render(models.TypeWelcome, Payload{}, "", testBaseURL)
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "Hi there,")
}

func TestInterviewReminderOmitsMissingMeetingLink(t *testing.T) {
	payload := Payload{
		"jobTitle": "Backend Engineer",
		"company":  "Acme",
		"date":     "2026-09-10",
		"time":     "14:00",
		"location": "12 Harbor St",
	}

	email, err := Render(models.TypeInterviewReminder24h, payload, "Jo", testBaseURL)
	require.NoError(t, err)

	assert.NotContains(t, email.HTML, "Meeting Link")
	assert.Contains(t, email.HTML, "Date:")
	assert.Contains(t, email.HTML, "Time:")
	assert.Contains(t, email.HTML, "Location:")
	assert.Contains(t, email.HTML, "12 Harbor St")
}

func TestInterviewReminderIncludesMeetingLinkWhenPresent(t *testing.T) {
	payload := Payload{
		"jobTitle":    "Backend Engineer",
		"company":     "Acme",
		"date":        "2026-09-10",
		"time":        "14:00",
		"meetingLink": "https://meet.example.com/abc",
	}

	email, err := Render(models.TypeInterviewReminder24h, payload, "Jo", testBaseURL)
	require.NoError(t, err)

	assert.Contains(t, email.HTML, "Meeting Link")
	assert.Contains(t, email.HTML, "https://meet.example.com/abc")
	assert.NotContains(t, email.HTML, "Location:")
}

func TestJobMatchAlertListsTopMatches(t *testing.T) {
	payload := Payload{
		"matchCount": 2,
		"topMatches": []string{"Platform Engineer at Acme", "SRE at Globex"},
	}

	email, err := Render(models.TypeJobMatchAlert, payload, "Jo", testBaseURL)
	require.NoError(t, err)

	assert.Contains(t, email.Subject, "2 new job matches")
	assert.Contains(t, email.HTML, "Platform Engineer at Acme")
	assert.Contains(t, email.HTML, "SRE at Globex")
}

func TestStreakMilestoneCopyVariesByDayCount(t *testing.T) {
	tests := []struct {
		days     int
		fragment string
	}{
		{3, "Small steps add up"},
		{7, "One week strong"},
		{30, "A full month"},
		{100, "rare company"},
	}

	for _, tt := range tests {
		email, err := Render(models.TypeLearningStreakMilestone, Payload{"days": tt.days}, "Jo", testBaseURL)
		require.NoError(t, err)
		assert.Contains(t, email.HTML, tt.fragment, "days=%d", tt.days)
	}
}

func TestRenderEscapesHTMLInPayload(t *testing.T) {
	payload := Payload{
		"jobTitle": "<script>alert(1)</script>",
		"company":  "Acme",
	}

	email, err := Render(models.TypeApplicationSubmitted, payload, "Jo", testBaseURL)
	require.NoError(t, err)

	assert.NotContains(t, email.HTML, "<script>alert(1)</script>")
	assert.True(t, strings.Contains(email.HTML, "&lt;script&gt;"))
}
