package models

// NotificationType identifies one kind of notification. The set is closed:
// the template catalogue registers exactly one builder per type and an
// unknown type is a surfaced error, never a silent drop.
type NotificationType string

const (
	TypeWelcome                     NotificationType = "welcome"
	TypeApplicationSubmitted        NotificationType = "application_submitted"
	TypeApplicationStatusUpdate     NotificationType = "application_status_update"
	TypeInterviewScheduled          NotificationType = "interview_scheduled"
	TypeInterviewReminder24h        NotificationType = "interview_reminder_24h"
	TypeApplicationFollowupReminder NotificationType = "application_followup_reminder"
	TypeJobMatchAlert               NotificationType = "job_match_alert"
	TypeAgencyJobPosted             NotificationType = "agency_job_posted"
	TypeCompanyInvitation           NotificationType = "company_invitation"
	TypeMentorshipRequestReceived   NotificationType = "mentorship_request_received"
	TypeMentorshipRequestAccepted   NotificationType = "mentorship_request_accepted"
	TypeRelationshipApproved        NotificationType = "relationship_approved"
	TypeRelationshipDeclined        NotificationType = "relationship_declined"
	TypeSessionScheduled            NotificationType = "session_scheduled"
	TypeSessionReminder             NotificationType = "session_reminder"
	TypeSessionCancelled            NotificationType = "session_cancelled"
	TypeFeedbackRequest             NotificationType = "feedback_request"
	TypeResumeAnalysisComplete      NotificationType = "resume_analysis_complete"
	TypeAchievementUnlocked         NotificationType = "achievement_unlocked"
	TypeBadgeAwarded                NotificationType = "badge_awarded"
	TypeLearningStreakMilestone     NotificationType = "learning_streak_milestone"
	TypeGoalProgressUpdate          NotificationType = "goal_progress_update"
	TypeWeeklyDigest                NotificationType = "weekly_digest"
	TypeABTestResults               NotificationType = "ab_test_results"
	TypeCommunityReply              NotificationType = "community_reply"
)

// AllTypes lists every member of the closed enumeration.
var AllTypes = []NotificationType{
	TypeWelcome,
	TypeApplicationSubmitted,
	TypeApplicationStatusUpdate,
	TypeInterviewScheduled,
	TypeInterviewReminder24h,
	TypeApplicationFollowupReminder,
	TypeJobMatchAlert,
	TypeAgencyJobPosted,
	TypeCompanyInvitation,
	TypeMentorshipRequestReceived,
	TypeMentorshipRequestAccepted,
	TypeRelationshipApproved,
	TypeRelationshipDeclined,
	TypeSessionScheduled,
	TypeSessionReminder,
	TypeSessionCancelled,
	TypeFeedbackRequest,
	TypeResumeAnalysisComplete,
	TypeAchievementUnlocked,
	TypeBadgeAwarded,
	TypeLearningStreakMilestone,
	TypeGoalProgressUpdate,
	TypeWeeklyDigest,
	TypeABTestResults,
	TypeCommunityReply,
}

var typeSet = func() map[NotificationType]struct{} {
	s := make(map[NotificationType]struct{}, len(AllTypes))
	for _, t := range AllTypes {
		s[t] = struct{}{}
	}
	return s
}()

func (t NotificationType) Valid() bool {
	_, ok := typeSet[t]
	return ok
}
