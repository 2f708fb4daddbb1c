// Package demo implements the in-memory backend simulator used when no
// real backend is configured. It exposes the same operation surface as the
// HTTP API over process-lifetime collections, with artificial latency so
// loading states are exercised exactly like the real backend.
package demo

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/pkg/config"
	appErrors "github.com/boarding-dev/placement-client/pkg/errors"
	"github.com/boarding-dev/placement-client/pkg/paging"
)

const (
	demoAccessToken  = "demo-access-token"
	demoRefreshToken = "demo-refresh-token"

	// label for threads the student opens before any company replied
	fallbackThreadCompany = "Boarding Advisor"

	profileChecks = 11
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// storeState holds the singleton demo collections.
type storeState struct {
	user         models.StudentUser
	profile      models.StudentProfile
	matches      []models.CompanyMatch
	appointments []models.Appointment
	threads      []models.MessageThread
	messages     map[string][]models.ChatMessage
	journey      []models.JourneyMilestone
	resources    []models.ResourceItem
}

// Simulator is the demo backend. All operations are safe for concurrent
// use; a single mutex guards the collections.
type Simulator struct {
	latency   time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	state *storeState
}

// New seeds a simulator with the demo dataset.
func New(cfg config.DemoConfig, validate *validator.Validate, logger *zap.Logger) *Simulator {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	return &Simulator{
		latency:   cfg.Latency,
		validator: validate,
		logger:    logger,
		now:       now,
		state:     seedState(now()),
	}
}

// Login accepts any credentials and derives the display name from the
// email's local part.
func (s *Simulator) Login(ctx context.Context, payload models.LoginPayload) (*models.AuthSession, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	firstName, lastName := displayNameFromEmail(payload.Email)

	s.mu.Lock()
	s.state.user.Email = payload.Email
	s.state.user.FirstName = firstName
	s.state.user.LastName = lastName
	s.state.profile.Email = payload.Email
	s.state.profile.FirstName = firstName
	s.state.profile.LastName = lastName
	user := s.state.user
	s.mu.Unlock()

	return &models.AuthSession{
		AccessToken:  demoAccessToken,
		RefreshToken: demoRefreshToken,
		User:         user,
	}, nil
}

// Register creates the demo account with the supplied identity.
func (s *Simulator) Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthSession, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state.user.FirstName = payload.FirstName
	s.state.user.LastName = payload.LastName
	s.state.user.Email = payload.Email
	s.state.user.Status = models.StudentStatusActive
	s.state.profile.FirstName = payload.FirstName
	s.state.profile.LastName = payload.LastName
	s.state.profile.Email = payload.Email
	user := s.state.user
	s.mu.Unlock()

	return &models.AuthSession{
		AccessToken:  demoAccessToken,
		RefreshToken: demoRefreshToken,
		User:         user,
	}, nil
}

// Me returns the current demo user.
func (s *Simulator) Me(ctx context.Context) (*models.StudentUser, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	user := s.state.user
	s.mu.Unlock()
	return &user, nil
}

// Refresh issues a freshly time-stamped access token. It never fails;
// an empty refresh token is replaced with the demo default.
func (s *Simulator) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	if err := s.sleep(ctx, s.latency/2); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		refreshToken = demoRefreshToken
	}
	return &models.AuthTokens{
		AccessToken:  fmt.Sprintf("%s-%d", demoAccessToken, s.now().UnixMilli()),
		RefreshToken: refreshToken,
	}, nil
}

// Logout is a quick no-op round trip.
func (s *Simulator) Logout(ctx context.Context) error {
	return s.sleep(ctx, s.latency/3)
}

// DashboardSummary aggregates the demo collections.
func (s *Simulator) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var next *models.Appointment
	for i := range s.state.appointments {
		if s.state.appointments[i].Status == models.AppointmentScheduled {
			appt := s.state.appointments[i]
			next = &appt
			break
		}
	}

	return &models.DashboardSummary{
		ProfileCompletion: s.state.profile.Completion,
		MatchCount:        len(s.state.matches),
		NextStep:          "Complete interview availability preferences",
		NextAppointment:   next,
		UpcomingActions: []string{
			"Review top company matches",
			"Prepare interview answers in English",
			"Upload updated resume PDF",
		},
	}, nil
}

// GetProfile returns the singleton profile.
func (s *Simulator) GetProfile(ctx context.Context) (*models.StudentProfile, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	profile := s.state.profile
	s.mu.Unlock()
	return &profile, nil
}

// UpdateProfile merges the payload into the stored profile, recomputes
// completion and mirrors name, email and completion onto the user record.
func (s *Simulator) UpdateProfile(ctx context.Context, payload models.ProfilePayload) (*models.StudentProfile, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.profile
	next.FirstName = payload.FirstName
	next.LastName = payload.LastName
	next.Email = payload.Email
	next.AvatarURL = payload.AvatarURL
	next.Phone = payload.Phone
	next.EducationLevel = payload.EducationLevel
	next.FieldOfStudy = payload.FieldOfStudy
	next.GraduationYear = payload.GraduationYear
	next.PreferredCountry = payload.PreferredCountry
	next.PreferredIndustry = payload.PreferredIndustry
	next.Languages = payload.Languages
	next.HousingSupportNeeded = payload.HousingSupportNeeded
	next.Bio = payload.Bio
	next.ResumeFileName = payload.ResumeFileName
	next.ResumeURL = payload.ResumeURL
	next.ResumeUploadedAt = payload.ResumeUploadedAt
	next.Completion = ProfileCompletion(next)

	s.state.profile = next
	s.state.user.FirstName = payload.FirstName
	s.state.user.LastName = payload.LastName
	s.state.user.Email = payload.Email
	s.state.user.ProfileCompletion = next.Completion

	profile := s.state.profile
	return &profile, nil
}

// UploadResume records the resume file and synthesizes a download URL.
func (s *Simulator) UploadResume(ctx context.Context, fileName string, content []byte) (*models.StudentProfile, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	safeName := whitespacePattern.ReplaceAllString(fileName, "_")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.profile.ResumeFileName = fileName
	s.state.profile.ResumeURL = "https://example.com/uploads/" + url.PathEscape(safeName)
	s.state.profile.ResumeUploadedAt = s.now().UTC().Format(time.RFC3339)
	s.state.profile.Completion = ProfileCompletion(s.state.profile)
	s.state.user.ProfileCompletion = s.state.profile.Completion

	profile := s.state.profile
	return &profile, nil
}

// UploadAvatar stores the avatar as an inline data URL.
func (s *Simulator) UploadAvatar(ctx context.Context, fileName string, content []byte) (*models.StudentProfile, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	mimeType := http.DetectContentType(content)
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.profile.AvatarURL = dataURL
	s.state.user.AvatarURL = dataURL

	profile := s.state.profile
	return &profile, nil
}

// ListMatches filters by industry, minimum score and case-insensitive
// company-name search, then paginates.
func (s *Simulator) ListMatches(ctx context.Context, query models.MatchesQuery) (paging.Paginated[models.CompanyMatch], error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return paging.Paginated[models.CompanyMatch]{}, err
	}

	s.mu.Lock()
	filtered := make([]models.CompanyMatch, 0, len(s.state.matches))
	needle := strings.ToLower(strings.TrimSpace(query.Search))
	for _, match := range s.state.matches {
		if query.Industry != "" && !strings.EqualFold(match.Industry, query.Industry) {
			continue
		}
		if query.MinScore != nil && match.Score < *query.MinScore {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(match.CompanyName), needle) {
			continue
		}
		filtered = append(filtered, match)
	}
	s.mu.Unlock()

	return paging.Paginate(filtered, pageOr(query.Page, 1), pageOr(query.PageSize, 10)), nil
}

// ListAppointments filters by status and sorts ascending by date.
func (s *Simulator) ListAppointments(ctx context.Context, query models.AppointmentsQuery) (paging.Paginated[models.Appointment], error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return paging.Paginated[models.Appointment]{}, err
	}

	s.mu.Lock()
	filtered := make([]models.Appointment, 0, len(s.state.appointments))
	for _, appt := range s.state.appointments {
		if query.Status != "" && appt.Status != query.Status {
			continue
		}
		filtered = append(filtered, appt)
	}
	s.mu.Unlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date < filtered[j].Date
	})

	return paging.Paginate(filtered, pageOr(query.Page, 1), pageOr(query.PageSize, 10)), nil
}

// CreateAppointment prepends a new scheduled appointment.
func (s *Simulator) CreateAppointment(ctx context.Context, payload models.CreateAppointmentPayload) (*models.Appointment, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	next := models.Appointment{
		ID:     randomID("appt"),
		Title:  payload.Title,
		Date:   normalizeDate(payload.Date),
		Status: models.AppointmentScheduled,
		Type:   payload.Type,
		Notes:  payload.Notes,
	}

	s.mu.Lock()
	s.state.appointments = append([]models.Appointment{next}, s.state.appointments...)
	s.mu.Unlock()

	return &next, nil
}

// ListThreads returns conversations newest-first.
func (s *Simulator) ListThreads(ctx context.Context, query models.ThreadsQuery) (paging.Paginated[models.MessageThread], error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return paging.Paginated[models.MessageThread]{}, err
	}

	s.mu.Lock()
	ordered := append([]models.MessageThread{}, s.state.threads...)
	s.mu.Unlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt > ordered[j].UpdatedAt
	})

	return paging.Paginate(ordered, pageOr(query.Page, 1), pageOr(query.PageSize, 20)), nil
}

// ListMessages paginates the messages of one thread; unknown threads are
// empty, not errors.
func (s *Simulator) ListMessages(ctx context.Context, threadID string, page, pageSize int) (paging.Paginated[models.ChatMessage], error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return paging.Paginated[models.ChatMessage]{}, err
	}

	s.mu.Lock()
	messages := append([]models.ChatMessage{}, s.state.messages[threadID]...)
	s.mu.Unlock()

	return paging.Paginate(messages, pageOr(page, 1), pageOr(pageSize, 20)), nil
}

// SendMessage appends a student message, creating the thread on first use.
func (s *Simulator) SendMessage(ctx context.Context, threadID string, payload models.SendMessagePayload) (*models.ChatMessage, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if err := s.sleep(ctx, s.latency/2); err != nil {
		return nil, err
	}

	next := models.ChatMessage{
		ID:        randomID("msg"),
		ThreadID:  threadID,
		Sender:    models.SenderStudent,
		Content:   payload.Content,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.messages[threadID] = append(s.state.messages[threadID], next)

	found := false
	for i := range s.state.threads {
		if s.state.threads[i].ID == threadID {
			s.state.threads[i].LastMessage = payload.Content
			s.state.threads[i].UpdatedAt = next.CreatedAt
			found = true
			break
		}
	}
	if !found {
		s.state.threads = append([]models.MessageThread{{
			ID:          threadID,
			CompanyName: fallbackThreadCompany,
			LastMessage: payload.Content,
			UnreadCount: 0,
			UpdatedAt:   next.CreatedAt,
		}}, s.state.threads...)
	}

	return &next, nil
}

// Journey returns the milestone timeline.
func (s *Simulator) Journey(ctx context.Context) (*models.Journey, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.Lock()
	milestones := append([]models.JourneyMilestone{}, s.state.journey...)
	s.mu.Unlock()

	return &models.Journey{Milestones: milestones}, nil
}

// ListResources filters by category ("all" and empty match everything).
func (s *Simulator) ListResources(ctx context.Context, query models.ResourcesQuery) (paging.Paginated[models.ResourceItem], error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return paging.Paginated[models.ResourceItem]{}, err
	}

	s.mu.Lock()
	filtered := make([]models.ResourceItem, 0, len(s.state.resources))
	for _, item := range s.state.resources {
		if query.Category != "" && query.Category != "all" && string(item.Category) != query.Category {
			continue
		}
		filtered = append(filtered, item)
	}
	s.mu.Unlock()

	return paging.Paginate(filtered, pageOr(query.Page, 1), pageOr(query.PageSize, 10)), nil
}

// ProfileCompletion scores a profile across eleven binary checks and
// rounds to the nearest integer percentage.
func ProfileCompletion(profile models.StudentProfile) int {
	checks := []bool{
		strings.TrimSpace(profile.FirstName) != "",
		strings.TrimSpace(profile.LastName) != "",
		strings.TrimSpace(profile.Email) != "",
		strings.TrimSpace(profile.Phone) != "",
		strings.TrimSpace(profile.FieldOfStudy) != "",
		strings.TrimSpace(profile.GraduationYear) != "",
		strings.TrimSpace(profile.PreferredCountry) != "",
		strings.TrimSpace(profile.PreferredIndustry) != "",
		strings.TrimSpace(profile.Languages) != "",
		strings.TrimSpace(profile.Bio) != "",
		profile.ResumeFileName != "",
	}

	done := 0
	for _, ok := range checks {
		if ok {
			done++
		}
	}
	return int(math.Round(float64(done) / profileChecks * 100))
}

// displayNameFromEmail splits the local part on dot, underscore and dash
// and capitalizes the first two tokens, defaulting to Student/User.
func displayNameFromEmail(email string) (string, string) {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})

	first, second := "Student", "User"
	if len(tokens) > 0 && tokens[0] != "" {
		first = tokens[0]
	}
	if len(tokens) > 1 && tokens[1] != "" {
		second = tokens[1]
	}
	return capitalize(first), capitalize(second)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func normalizeDate(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return raw
}

func pageOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func randomID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func (s *Simulator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
