package demo

import (
	"time"

	"github.com/boarding-dev/placement-client/internal/models"
)

// seedState builds the process-lifetime demo collections: one student with
// a partially completed profile, a handful of matches, appointments,
// conversations, the journey timeline and the resource library.
func seedState(now time.Time) *storeState {
	inDays := func(days int) string {
		return now.AddDate(0, 0, days).UTC().Format(time.RFC3339)
	}

	return &storeState{
		user: models.StudentUser{
			ID:                "student-001",
			FirstName:         "Demo",
			LastName:          "Student",
			Email:             "student@boarding.dev",
			ProfileCompletion: 72,
			Status:            models.StudentStatusActive,
		},
		profile: models.StudentProfile{
			ID:                   "profile-001",
			FirstName:            "Demo",
			LastName:             "Student",
			Email:                "student@boarding.dev",
			Phone:                "+212 600-123-456",
			EducationLevel:       models.EducationBachelor,
			FieldOfStudy:         "Business Administration",
			GraduationYear:       "2027",
			PreferredCountry:     "Germany",
			PreferredIndustry:    "Hospitality",
			Languages:            "English, French",
			HousingSupportNeeded: true,
			Bio:                  "Motivated student seeking international internship opportunities with strong communication skills.",
			ResumeFileName:       "Demo_Student_Resume.pdf",
			ResumeURL:            "https://example.com/uploads/Demo_Student_Resume.pdf",
			ResumeUploadedAt:     inDays(-4),
			Completion:           72,
		},
		matches: []models.CompanyMatch{
			{
				ID:          "match-1",
				CompanyName: "Nord Stay Hotels",
				Industry:    "hospitality",
				Location:    "Berlin, Germany",
				Score:       91,
				Status:      models.MatchStatusNew,
				Description: "Guest operations internship with onboarding support for international students.",
			},
			{
				ID:          "match-2",
				CompanyName: "CareBridge Clinic",
				Industry:    "healthcare",
				Location:    "Lyon, France",
				Score:       77,
				Status:      models.MatchStatusReviewed,
				Description: "Administrative support role focused on patient scheduling and communication.",
			},
			{
				ID:          "match-3",
				CompanyName: "Blue Forge Manufacturing",
				Industry:    "manufacturing",
				Location:    "Rotterdam, Netherlands",
				Score:       68,
				Status:      models.MatchStatusNew,
				Description: "Process coordination internship with mentorship and language support.",
			},
			{
				ID:          "match-4",
				CompanyName: "Orbit IT Systems",
				Industry:    "it",
				Location:    "Lisbon, Portugal",
				Score:       84,
				Status:      models.MatchStatusAccepted,
				Description: "Junior QA internship on customer-facing web products.",
			},
		},
		appointments: []models.Appointment{
			{
				ID:     "appt-1",
				Title:  "Placement coaching session",
				Date:   inDays(2),
				Status: models.AppointmentScheduled,
				Type:   models.AppointmentCoaching,
				Notes:  "Bring your updated profile and language certificates.",
			},
			{
				ID:     "appt-2",
				Title:  "Interview with Nord Stay Hotels",
				Date:   inDays(5),
				Status: models.AppointmentScheduled,
				Type:   models.AppointmentInterview,
			},
		},
		threads: []models.MessageThread{
			{
				ID:          "thread-1",
				CompanyName: "Nord Stay Hotels",
				LastMessage: "Can you share your availability for next week?",
				UnreadCount: 1,
				UpdatedAt:   inDays(-1),
			},
			{
				ID:          "thread-2",
				CompanyName: "Boarding Agency Advisor",
				LastMessage: "Your onboarding draft is looking good.",
				UnreadCount: 0,
				UpdatedAt:   inDays(-2),
			},
		},
		messages: map[string][]models.ChatMessage{
			"thread-1": {
				{
					ID:        "msg-1",
					ThreadID:  "thread-1",
					Sender:    models.SenderCompany,
					Content:   "Hello! We reviewed your profile and would like to schedule an interview.",
					CreatedAt: inDays(-2),
				},
				{
					ID:        "msg-2",
					ThreadID:  "thread-1",
					Sender:    models.SenderStudent,
					Content:   "Great, thank you. I am available next Tuesday and Wednesday.",
					CreatedAt: inDays(-1),
				},
			},
			"thread-2": {
				{
					ID:        "msg-3",
					ThreadID:  "thread-2",
					Sender:    models.SenderAgency,
					Content:   "Please complete your preferred industry before Friday.",
					CreatedAt: inDays(-3),
				},
			},
		},
		journey: []models.JourneyMilestone{
			{
				ID:          "journey-1",
				Title:       "Account created",
				Date:        inDays(-20),
				Status:      models.MilestoneDone,
				Description: "You created your student account.",
			},
			{
				ID:          "journey-2",
				Title:       "Profile review",
				Date:        inDays(-5),
				Status:      models.MilestoneDone,
				Description: "Agency reviewed your profile and gave feedback.",
			},
			{
				ID:          "journey-3",
				Title:       "Company matching in progress",
				Date:        inDays(1),
				Status:      models.MilestoneCurrent,
				Description: "Your profile is being matched with partner companies.",
			},
			{
				ID:          "journey-4",
				Title:       "Interview round",
				Date:        inDays(7),
				Status:      models.MilestoneUpcoming,
				Description: "You will attend first interviews with top matches.",
			},
		},
		resources: []models.ResourceItem{
			{
				ID:       "resource-1",
				Title:    "Finding student housing in Berlin",
				Category: models.ResourceHousing,
				Excerpt:  "A practical checklist to secure short-term housing before arrival.",
				URL:      "https://example.com/housing-berlin",
			},
			{
				ID:       "resource-2",
				Title:    "Workplace German essentials",
				Category: models.ResourceLanguage,
				Excerpt:  "Essential terms and phrases for your first internship month.",
				URL:      "https://example.com/german-essentials",
			},
			{
				ID:       "resource-3",
				Title:    "Public transport and local life guide",
				Category: models.ResourceLocalLife,
				Excerpt:  "How to navigate the city, SIM cards, and everyday admin tasks.",
				URL:      "https://example.com/local-life",
			},
			{
				ID:       "resource-4",
				Title:    "Internship legal checklist",
				Category: models.ResourceLegal,
				Excerpt:  "Visa, insurance, and contract checkpoints before departure.",
				URL:      "https://example.com/legal-checklist",
			},
			{
				ID:       "resource-5",
				Title:    "Healthcare access for international students",
				Category: models.ResourceHealth,
				Excerpt:  "What to do in urgent and non-urgent medical situations.",
				URL:      "https://example.com/healthcare-access",
			},
		},
	}
}
