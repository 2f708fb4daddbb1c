package placement

import (
	"context"
	"net/url"
	"strconv"

	"github.com/boarding-dev/placement-client/internal/api"
	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/pkg/paging"
)

// httpAuth dispatches auth calls. These opt out of global error
// publication so the auth screens can render inline field errors.
type httpAuth struct {
	client *api.Client
}

func (h *httpAuth) Login(ctx context.Context, payload models.LoginPayload) (*models.AuthSession, error) {
	var out models.AuthSession
	if err := h.client.Post(ctx, api.AuthLoginPath, payload, &out, api.SkipGlobalError()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpAuth) Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthSession, error) {
	var out models.AuthSession
	if err := h.client.Post(ctx, api.AuthRegisterPath, payload, &out, api.SkipGlobalError()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpAuth) Me(ctx context.Context) (*models.StudentUser, error) {
	var out models.StudentUser
	if err := h.client.Get(ctx, api.AuthMePath, nil, &out, api.SkipGlobalError()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpAuth) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	var out models.AuthTokens
	err := h.client.Post(ctx, api.AuthRefreshPath, models.RefreshPayload{RefreshToken: refreshToken}, &out,
		api.SkipGlobalError(), api.SkipGlobalLoading(), api.SkipAuthRefresh())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpAuth) Logout(ctx context.Context) error {
	return h.client.Post(ctx, api.AuthLogoutPath, struct{}{}, nil, api.SkipGlobalError())
}

type httpProfile struct {
	client *api.Client
}

func (h *httpProfile) GetProfile(ctx context.Context) (*models.StudentProfile, error) {
	var out models.StudentProfile
	if err := h.client.Get(ctx, api.ProfilePath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpProfile) UpdateProfile(ctx context.Context, payload models.ProfilePayload) (*models.StudentProfile, error) {
	var out models.StudentProfile
	if err := h.client.Put(ctx, api.ProfilePath, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpProfile) UploadResume(ctx context.Context, fileName string, content []byte) (*models.StudentProfile, error) {
	var out models.StudentProfile
	if err := h.client.Upload(ctx, api.ProfileResumePath, "resume", fileName, content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpProfile) UploadAvatar(ctx context.Context, fileName string, content []byte) (*models.StudentProfile, error) {
	var out models.StudentProfile
	if err := h.client.Upload(ctx, api.ProfileAvatarPath, "avatar", fileName, content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type httpMatching struct {
	client *api.Client
}

func (h *httpMatching) ListMatches(ctx context.Context, query models.MatchesQuery) (paging.Paginated[models.CompanyMatch], error) {
	params := pageParams(query.Page, query.PageSize)
	if query.Industry != "" {
		params.Set("industry", query.Industry)
	}
	if query.MinScore != nil {
		params.Set("minScore", strconv.Itoa(*query.MinScore))
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}

	var out paging.Paginated[models.CompanyMatch]
	err := h.client.Get(ctx, api.MatchesPath, params, &out)
	return out, err
}

type httpAppointments struct {
	client *api.Client
}

func (h *httpAppointments) ListAppointments(ctx context.Context, query models.AppointmentsQuery) (paging.Paginated[models.Appointment], error) {
	params := pageParams(query.Page, query.PageSize)
	if query.Status != "" {
		params.Set("status", string(query.Status))
	}

	var out paging.Paginated[models.Appointment]
	err := h.client.Get(ctx, api.AppointmentsPath, params, &out)
	return out, err
}

func (h *httpAppointments) CreateAppointment(ctx context.Context, payload models.CreateAppointmentPayload) (*models.Appointment, error) {
	var out models.Appointment
	if err := h.client.Post(ctx, api.AppointmentsPath, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type httpMessaging struct {
	client *api.Client
}

func (h *httpMessaging) ListThreads(ctx context.Context, query models.ThreadsQuery) (paging.Paginated[models.MessageThread], error) {
	var out paging.Paginated[models.MessageThread]
	err := h.client.Get(ctx, api.ThreadsPath, pageParams(query.Page, query.PageSize), &out)
	return out, err
}

func (h *httpMessaging) ListMessages(ctx context.Context, threadID string, page, pageSize int) (paging.Paginated[models.ChatMessage], error) {
	var out paging.Paginated[models.ChatMessage]
	err := h.client.Get(ctx, api.ThreadMessagesPath(threadID), pageParams(page, pageSize), &out)
	return out, err
}

func (h *httpMessaging) SendMessage(ctx context.Context, threadID string, payload models.SendMessagePayload) (*models.ChatMessage, error) {
	var out models.ChatMessage
	if err := h.client.Post(ctx, api.ThreadMessagesPath(threadID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type httpJourney struct {
	client *api.Client
}

func (h *httpJourney) Journey(ctx context.Context) (*models.Journey, error) {
	var out models.Journey
	if err := h.client.Get(ctx, api.JourneyPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type httpResources struct {
	client *api.Client
}

func (h *httpResources) ListResources(ctx context.Context, query models.ResourcesQuery) (paging.Paginated[models.ResourceItem], error) {
	params := pageParams(query.Page, query.PageSize)
	if query.Category != "" && query.Category != "all" {
		params.Set("category", query.Category)
	}

	var out paging.Paginated[models.ResourceItem]
	err := h.client.Get(ctx, api.ResourcesPath, params, &out)
	return out, err
}

type httpDashboard struct {
	client *api.Client
}

func (h *httpDashboard) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var out models.DashboardSummary
	if err := h.client.Get(ctx, api.DashboardSummaryPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageParams(page, pageSize int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	return params
}
