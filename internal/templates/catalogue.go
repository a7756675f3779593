package templates

import (
	"fmt"

	"careerhub-notifications/internal/models"
)

type buildCtx struct {
	Name    string
	BaseURL string
}

// definition binds one notification type to its required payload fields and
// its content builder. Builders are pure: same payload, same output.
type definition struct {
	required []string
	build    func(p Payload, c buildCtx) view
}

var catalogue = map[models.NotificationType]definition{
	models.TypeWelcome: {
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: "Welcome to CareerHub!",
				Heading: "Welcome aboard",
				Intro:   "Your CareerHub account is ready. Set up your profile, upload a resume, and we will start matching you with opportunities right away.",
				Tips: []string{
					"Complete your profile to improve match quality",
					"Upload your resume for an instant analysis",
					"Set a weekly job-search goal to stay on track",
				},
				TipsTitle: "Get started in three steps",
				CTALabel:  "Go to your dashboard",
				CTAURL:    c.BaseURL + "/dashboard",
			}
		},
	},
	models.TypeApplicationSubmitted: {
		required: []string{"jobTitle", "company"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("Application submitted: %s at %s", p.Str("jobTitle"), p.Str("company")),
				Heading: "Application submitted",
				Intro:   "Your application has been submitted successfully. We will keep you posted as it moves through the process.",
				Rows: []row{
					{"Position", p.Str("jobTitle")},
					{"Company", p.Str("company")},
				},
				CTALabel: "Track your application",
				CTAURL:   c.BaseURL + "/applications",
			}
		},
	},
	models.TypeApplicationStatusUpdate: {
		required: []string{"jobTitle", "company", "status"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("Update on your application at %s", p.Str("company")),
				Heading: "Application update",
				Intro:   "There is an update on one of your applications.",
				Rows: []row{
					{"Position", p.Str("jobTitle")},
					{"Company", p.Str("company")},
					{"New status", p.Str("status")},
				},
				CTALabel: "View application",
				CTAURL:   c.BaseURL + "/applications",
			}
		},
	},
	models.TypeInterviewScheduled: {
		required: []string{"jobTitle", "company", "date", "time"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:      fmt.Sprintf("Interview scheduled: %s at %s", p.Str("jobTitle"), p.Str("company")),
				Heading:      "Interview scheduled",
				Intro:        "Great news! An interview has been scheduled for your application.",
				CalloutTitle: "Interview details",
				CalloutStyle: calloutInfo,
				Rows: []row{
					{"Position", p.Str("jobTitle")},
					{"Company", p.Str("company")},
					{"Date", p.Str("date")},
					{"Time", p.Str("time")},
					{"Format", p.Str("interviewType")},
					{"Location", p.Str("location")},
					{"Meeting Link", p.Str("meetingLink")},
				},
				Tips: []string{
					"Research the company and the role beforehand",
					"Prepare questions for your interviewer",
					"Test your setup ahead of time if the interview is remote",
				},
				TipsTitle: "Preparation tips",
				CTALabel:  "View interview details",
				CTAURL:    c.BaseURL + "/applications",
			}
		},
	},
	models.TypeInterviewReminder24h: {
		required: []string{"jobTitle", "company", "date", "time"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:      fmt.Sprintf("Reminder: interview tomorrow at %s", p.Str("company")),
				Heading:      "Interview tomorrow",
				Intro:        fmt.Sprintf("Your interview for %s at %s is coming up in 24 hours.", p.Str("jobTitle"), p.Str("company")),
				CalloutTitle: "Interview details",
				CalloutStyle: calloutWarn,
				Rows: []row{
					{"Date", p.Str("date")},
					{"Time", p.Str("time")},
					{"Location", p.Str("location")},
					{"Meeting Link", p.Str("meetingLink")},
				},
				Tips: []string{
					"Re-read the job description tonight",
					"Plan to arrive or dial in ten minutes early",
					"Have a copy of your resume at hand",
				},
				TipsTitle: "Last-minute checklist",
				CTALabel:  "Review your notes",
				CTAURL:    c.BaseURL + "/applications",
			}
		},
	},
	models.TypeApplicationFollowupReminder: {
		required: []string{"jobTitle", "company", "daysSinceApplied"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("Time to follow up with %s", p.Str("company")),
				Heading: "Follow-up reminder",
				Intro: fmt.Sprintf("It has been %d days since you applied for %s at %s. A polite follow-up can keep your application on the radar.",
					p.Int("daysSinceApplied"), p.Str("jobTitle"), p.Str("company")),
				CTALabel: "View application",
				CTAURL:   c.BaseURL + "/applications",
			}
		},
	},
	models.TypeJobMatchAlert: {
		required: []string{"matchCount"},
		build: func(p Payload, c buildCtx) view {
			v := view{
				Subject:  fmt.Sprintf("%d new job matches for you", p.Int("matchCount")),
				Heading:  "New job matches",
				Intro:    fmt.Sprintf("We found %d new roles that match your profile.", p.Int("matchCount")),
				CTALabel: "See your matches",
				CTAURL:   c.BaseURL + "/jobs",
			}
			if matches := p.Strs("topMatches"); len(matches) > 0 {
				v.Tips = matches
				v.TipsTitle = "Top matches"
			}
			return v
		},
	},
	models.TypeAgencyJobPosted: {
		required: []string{"jobTitle", "agencyName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("New role from %s: %s", p.Str("agencyName"), p.Str("jobTitle")),
				Heading: "New agency posting",
				Intro:   fmt.Sprintf("%s just posted a role that may interest you.", p.Str("agencyName")),
				Rows: []row{
					{"Position", p.Str("jobTitle")},
					{"Agency", p.Str("agencyName")},
					{"Location", p.Str("location")},
					{"Salary", p.Str("salaryRange")},
				},
				CTALabel: "View posting",
				CTAURL:   c.BaseURL + "/jobs",
			}
		},
	},
	models.TypeCompanyInvitation: {
		required: []string{"companyName", "inviterName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("%s invited you to join %s on CareerHub", p.Str("inviterName"), p.Str("companyName")),
				Heading: "You're invited",
				Intro:   fmt.Sprintf("%s has invited you to join %s on CareerHub.", p.Str("inviterName"), p.Str("companyName")),
				Rows: []row{
					{"Company", p.Str("companyName")},
					{"Invited by", p.Str("inviterName")},
					{"Role", p.Str("role")},
				},
				CTALabel: "Accept invitation",
				CTAURL:   c.BaseURL + "/invitations",
				Outro:    "If you don't have a CareerHub account yet, accepting the invitation will create one for you.",
			}
		},
	},
	models.TypeMentorshipRequestReceived: {
		required: []string{"menteeName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("New mentorship request from %s", p.Str("menteeName")),
				Heading: "Mentorship request",
				Intro:   fmt.Sprintf("%s would like you to be their mentor.", p.Str("menteeName")),
				Rows: []row{
					{"From", p.Str("menteeName")},
					{"Topic", p.Str("topic")},
					{"Message", p.Str("message")},
				},
				CTALabel: "Respond to request",
				CTAURL:   c.BaseURL + "/mentorship",
			}
		},
	},
	models.TypeMentorshipRequestAccepted: {
		required: []string{"mentorName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:  fmt.Sprintf("%s accepted your mentorship request", p.Str("mentorName")),
				Heading:  "Request accepted",
				Intro:    fmt.Sprintf("%s has accepted your mentorship request. You can now schedule your first session together.", p.Str("mentorName")),
				CTALabel: "Schedule a session",
				CTAURL:   c.BaseURL + "/mentorship",
			}
		},
	},
	models.TypeRelationshipApproved: {
		required: []string{"coachName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:  fmt.Sprintf("%s approved your coaching request", p.Str("coachName")),
				Heading:  "Coaching request approved",
				Intro:    fmt.Sprintf("%s has approved your coaching request. Head to your coaching space to get started.", p.Str("coachName")),
				CTALabel: "Open coaching space",
				CTAURL:   c.BaseURL + "/coaching",
			}
		},
	},
	models.TypeRelationshipDeclined: {
		required: []string{"coachName"},
		build: func(p Payload, c buildCtx) view {
			v := view{
				Subject:  "Update on your coaching request",
				Heading:  "Coaching request declined",
				Intro:    fmt.Sprintf("%s is unable to take on your coaching request at this time.", p.Str("coachName")),
				CTALabel: "Find another coach",
				CTAURL:   c.BaseURL + "/coaching/find",
			}
			if p.Has("reason") {
				v.Rows = []row{{"Note from the coach", p.Str("reason")}}
			}
			return v
		},
	},
	models.TypeSessionScheduled: {
		required: []string{"coachName", "date", "time"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:      fmt.Sprintf("Session scheduled with %s", p.Str("coachName")),
				Heading:      "Session scheduled",
				Intro:        fmt.Sprintf("Your coaching session with %s is confirmed.", p.Str("coachName")),
				CalloutTitle: "Session details",
				CalloutStyle: calloutInfo,
				Rows: []row{
					{"Coach", p.Str("coachName")},
					{"Date", p.Str("date")},
					{"Time", p.Str("time")},
					{"Topic", p.Str("topic")},
					{"Meeting Link", p.Str("meetingLink")},
				},
				CTALabel: "View session",
				CTAURL:   c.BaseURL + "/sessions",
			}
		},
	},
	models.TypeSessionReminder: {
		required: []string{"coachName", "date", "time"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:      fmt.Sprintf("Reminder: session with %s", p.Str("coachName")),
				Heading:      "Upcoming session",
				Intro:        fmt.Sprintf("Your session with %s is coming up.", p.Str("coachName")),
				CalloutTitle: "Session details",
				CalloutStyle: calloutWarn,
				Rows: []row{
					{"Date", p.Str("date")},
					{"Time", p.Str("time")},
					{"Meeting Link", p.Str("meetingLink")},
				},
				CTALabel: "View session",
				CTAURL:   c.BaseURL + "/sessions",
			}
		},
	},
	models.TypeSessionCancelled: {
		required: []string{"coachName", "date"},
		build: func(p Payload, c buildCtx) view {
			v := view{
				Subject:  fmt.Sprintf("Session with %s was cancelled", p.Str("coachName")),
				Heading:  "Session cancelled",
				Intro:    fmt.Sprintf("Your session with %s on %s has been cancelled.", p.Str("coachName"), p.Str("date")),
				CTALabel: "Reschedule",
				CTAURL:   c.BaseURL + "/sessions",
			}
			if p.Has("reason") {
				v.Rows = []row{{"Reason", p.Str("reason")}}
			}
			return v
		},
	},
	models.TypeFeedbackRequest: {
		required: []string{"coachName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:  fmt.Sprintf("How was your session with %s?", p.Str("coachName")),
				Heading:  "Share your feedback",
				Intro:    fmt.Sprintf("Your session with %s has wrapped up. A quick rating helps other members find great coaches.", p.Str("coachName")),
				CTALabel: "Leave feedback",
				CTAURL:   c.BaseURL + "/sessions/feedback",
			}
		},
	},
	models.TypeResumeAnalysisComplete: {
		required: []string{"score"},
		build: func(p Payload, c buildCtx) view {
			v := view{
				Subject:      "Your resume analysis is ready",
				Heading:      "Resume analysis complete",
				Intro:        "We have finished analyzing your resume.",
				CalloutTitle: "Results",
				CalloutStyle: calloutInfo,
				Rows: []row{
					{"Overall score", fmt.Sprintf("%d / 100", p.Int("score"))},
				},
				CTALabel: "See full analysis",
				CTAURL:   c.BaseURL + "/resume",
			}
			if highlights := p.Strs("highlights"); len(highlights) > 0 {
				v.Tips = highlights
				v.TipsTitle = "Key findings"
			}
			return v
		},
	},
	models.TypeAchievementUnlocked: {
		required: []string{"achievementName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("Achievement unlocked: %s", p.Str("achievementName")),
				Heading: "Achievement unlocked",
				Intro:   "Nice work! You've unlocked a new achievement.",
				Rows: []row{
					{"Achievement", p.Str("achievementName")},
					{"Details", p.Str("description")},
				},
				CTALabel: "View achievements",
				CTAURL:   c.BaseURL + "/achievements",
			}
		},
	},
	models.TypeBadgeAwarded: {
		required: []string{"badgeName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("You earned the %s badge", p.Str("badgeName")),
				Heading: "New badge",
				Intro:   "A new badge has been added to your profile.",
				Rows: []row{
					{"Badge", p.Str("badgeName")},
					{"Awarded for", p.Str("reason")},
				},
				CTALabel: "View your badges",
				CTAURL:   c.BaseURL + "/achievements",
			}
		},
	},
	models.TypeLearningStreakMilestone: {
		required: []string{"days"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:  fmt.Sprintf("%d-day learning streak!", p.Int("days")),
				Heading:  "Streak milestone",
				Intro:    streakMessage(p.Int("days")),
				CTALabel: "Keep learning",
				CTAURL:   c.BaseURL + "/learning",
			}
		},
	},
	models.TypeGoalProgressUpdate: {
		required: []string{"goalTitle", "progress"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("You're %d%% of the way to \"%s\"", p.Int("progress"), p.Str("goalTitle")),
				Heading: "Goal progress",
				Intro:   "Here is where you stand on one of your goals.",
				Rows: []row{
					{"Goal", p.Str("goalTitle")},
					{"Progress", fmt.Sprintf("%d%%", p.Int("progress"))},
				},
				CTALabel: "Review your goals",
				CTAURL:   c.BaseURL + "/goals",
			}
		},
	},
	models.TypeWeeklyDigest: {
		build: func(p Payload, c buildCtx) view {
			v := view{
				Subject:      "Your week on CareerHub",
				Heading:      "Weekly digest",
				Intro:        "Here is a summary of your job-search activity this week.",
				CalloutTitle: "This week",
				CalloutStyle: calloutInfo,
				CTALabel:     "Open your dashboard",
				CTAURL:       c.BaseURL + "/dashboard",
			}
			if p.Has("matchCount") {
				v.Rows = append(v.Rows, row{"New job matches", fmt.Sprintf("%d", p.Int("matchCount"))})
			}
			if p.Has("applicationCount") {
				v.Rows = append(v.Rows, row{"Applications submitted", fmt.Sprintf("%d", p.Int("applicationCount"))})
			}
			if p.Has("upcomingSessions") {
				v.Rows = append(v.Rows, row{"Upcoming sessions", fmt.Sprintf("%d", p.Int("upcomingSessions"))})
			}
			return v
		},
	},
	models.TypeABTestResults: {
		required: []string{"testName"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject: fmt.Sprintf("Results are in for \"%s\"", p.Str("testName")),
				Heading: "Experiment results",
				Intro:   "One of your resume experiments has finished collecting data.",
				Rows: []row{
					{"Experiment", p.Str("testName")},
					{"Winning variant", p.Str("variant")},
					{"Improvement", p.Str("improvement")},
				},
				CTALabel: "View results",
				CTAURL:   c.BaseURL + "/experiments",
			}
		},
	},
	models.TypeCommunityReply: {
		required: []string{"replierName", "postTitle"},
		build: func(p Payload, c buildCtx) view {
			return view{
				Subject:  fmt.Sprintf("%s replied to your post", p.Str("replierName")),
				Heading:  "New reply",
				Intro:    fmt.Sprintf("%s replied to your post \"%s\".", p.Str("replierName"), p.Str("postTitle")),
				CTALabel: "Read the reply",
				CTAURL:   c.BaseURL + "/community",
			}
		},
	},
}

// streakMessage picks the milestone copy deterministically from the day
// count.
func streakMessage(days int) string {
	switch {
	case days >= 100:
		return fmt.Sprintf("100 days and counting. A %d-day learning streak puts you in rare company. Keep it going!", days)
	case days >= 30:
		return fmt.Sprintf("A full month of daily learning! Your %d-day streak is building real momentum.", days)
	case days >= 7:
		return fmt.Sprintf("One week strong! You've kept your learning streak alive for %d days.", days)
	default:
		return fmt.Sprintf("You're on a %d-day learning streak. Small steps add up!", days)
	}
}
