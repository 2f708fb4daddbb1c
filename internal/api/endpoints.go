package api

// Endpoint paths of the placement backend, relative to the base URL.
const (
	AuthLoginPath    = "/auth/login"
	AuthRegisterPath = "/auth/register"
	AuthMePath       = "/auth/me"
	AuthRefreshPath  = "/auth/refresh"
	AuthLogoutPath   = "/auth/logout"

	DashboardSummaryPath = "/students/dashboard/summary"

	ProfilePath       = "/students/profile"
	ProfileResumePath = "/students/profile/resume"
	ProfileAvatarPath = "/students/profile/avatar"

	MatchesPath      = "/students/matches"
	AppointmentsPath = "/students/appointments"
	ThreadsPath      = "/students/messages/threads"
	JourneyPath      = "/students/journey"
	ResourcesPath    = "/students/resources"
)

// ThreadMessagesPath returns the messages endpoint for one thread.
func ThreadMessagesPath(threadID string) string {
	return ThreadsPath + "/" + threadID
}
