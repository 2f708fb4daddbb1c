// Package placement exposes the per-domain API façades. Each façade is an
// interface with two implementations: one dispatching over HTTP through
// the authenticated client, one backed by the in-memory demo simulator.
// Callers never know which mode they are in.
package placement

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/boarding-dev/placement-client/internal/api"
	"github.com/boarding-dev/placement-client/internal/demo"
	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/internal/session"
	"github.com/boarding-dev/placement-client/internal/state"
	"github.com/boarding-dev/placement-client/pkg/config"
	"github.com/boarding-dev/placement-client/pkg/kv"
	"github.com/boarding-dev/placement-client/pkg/paging"
)

// AuthAPI covers login, registration and token lifecycle.
type AuthAPI interface {
	Login(ctx context.Context, payload models.LoginPayload) (*models.AuthSession, error)
	Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthSession, error)
	Me(ctx context.Context) (*models.StudentUser, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error)
	Logout(ctx context.Context) error
}

// ProfileAPI covers the student profile and its uploads.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, payload models.ProfilePayload) (*models.StudentProfile, error)
	UploadResume(ctx context.Context, fileName string, content []byte) (*models.StudentProfile, error)
	UploadAvatar(ctx context.Context, fileName string, content []byte) (*models.StudentProfile, error)
}

// MatchingAPI lists company matches.
type MatchingAPI interface {
	ListMatches(ctx context.Context, query models.MatchesQuery) (paging.Paginated[models.CompanyMatch], error)
}

// AppointmentsAPI lists and books appointments.
type AppointmentsAPI interface {
	ListAppointments(ctx context.Context, query models.AppointmentsQuery) (paging.Paginated[models.Appointment], error)
	CreateAppointment(ctx context.Context, payload models.CreateAppointmentPayload) (*models.Appointment, error)
}

// MessagingAPI covers threads and chat messages.
type MessagingAPI interface {
	ListThreads(ctx context.Context, query models.ThreadsQuery) (paging.Paginated[models.MessageThread], error)
	ListMessages(ctx context.Context, threadID string, page, pageSize int) (paging.Paginated[models.ChatMessage], error)
	SendMessage(ctx context.Context, threadID string, payload models.SendMessagePayload) (*models.ChatMessage, error)
}

// JourneyAPI returns the milestone timeline.
type JourneyAPI interface {
	Journey(ctx context.Context) (*models.Journey, error)
}

// ResourcesAPI lists relocation resources.
type ResourcesAPI interface {
	ListResources(ctx context.Context, query models.ResourcesQuery) (paging.Paginated[models.ResourceItem], error)
}

// DashboardAPI returns the summary card data.
type DashboardAPI interface {
	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
}

// API bundles every façade together with the shared state holders.
type API struct {
	Auth         AuthAPI
	Profile      ProfileAPI
	Matching     MatchingAPI
	Appointments AppointmentsAPI
	Messaging    MessagingAPI
	Journey      JourneyAPI
	Resources    ResourcesAPI
	Dashboard    DashboardAPI

	Session    *session.Store
	UI         *state.UIState
	Theme      *state.ThemeStore
	Onboarding *state.OnboardingStore
}

// NewFromConfig opens the configured storage backend, rehydrates every
// persisted state slice and wires the full client.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*API, error) {
	backend, err := kv.Open(cfg)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(ctx, backend, logger)
	a := New(cfg, sessions, state.NewUIState(), logger)
	a.Theme = state.NewThemeStore(ctx, backend)
	a.Onboarding = state.NewOnboardingStore(ctx, backend)
	return a, nil
}

// New wires the façades for the configured mode.
func New(cfg *config.Config, sessions *session.Store, ui *state.UIState, logger *zap.Logger) *API {
	if ui == nil {
		ui = state.NewUIState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &API{Session: sessions, UI: ui}

	if cfg.Demo.Enabled {
		sim := demo.New(cfg.Demo, validator.New(), logger)
		a.Auth = sim
		a.Profile = sim
		a.Matching = sim
		a.Appointments = sim
		a.Messaging = sim
		a.Journey = sim
		a.Resources = sim
		a.Dashboard = sim
		return a
	}

	client := api.New(cfg.API, sessions, ui, logger)
	a.Auth = &httpAuth{client: client}
	a.Profile = &httpProfile{client: client}
	a.Matching = &httpMatching{client: client}
	a.Appointments = &httpAppointments{client: client}
	a.Messaging = &httpMessaging{client: client}
	a.Journey = &httpJourney{client: client}
	a.Resources = &httpResources{client: client}
	a.Dashboard = &httpDashboard{client: client}
	return a
}
