package httpx

import (
	"log/slog"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs     *service.JobService
	Callback *service.CallbackService
	Reaper   *service.ReaperService
	Drafts   *service.DraftService
	Profiles *service.ProfileService
	Auth     *service.AuthService

	CallbackSecret string
	SweepSecret    string
	MaxUploadBytes int64

	IsDev  bool
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs}
	callbackHandlers := &CallbackHandlers{Svc: services.Callback, Secret: services.CallbackSecret}
	sweepHandlers := &SweepHandlers{Svc: services.Reaper, Secret: services.SweepSecret}
	draftHandlers := &DraftHandlers{Svc: services.Drafts}
	profileHandlers := &ProfileHandlers{Svc: services.Profiles}
	fileHandlers := &FileHandlers{MaxUploadBytes: services.MaxUploadBytes}
	authHandlers := &AuthHandlers{Svc: services.Auth, Profiles: services.Profiles}

	requireAuth := RequireAuth(services.Auth, services.Profiles)

	// Authenticated user surface.
	mux.Handle("POST /api/jobs", requireAuth(http.HandlerFunc(jobHandlers.CreateJob)))
	mux.Handle("GET /api/jobs", requireAuth(http.HandlerFunc(jobHandlers.ListJobs)))
	mux.Handle("GET /api/jobs/stats", requireAuth(http.HandlerFunc(jobHandlers.JobStats)))
	mux.Handle("GET /api/jobs/{id}", requireAuth(http.HandlerFunc(jobHandlers.GetJob)))
	mux.Handle("POST /api/jobs/parse-file", requireAuth(http.HandlerFunc(fileHandlers.ParseFile)))
	mux.Handle("POST /api/drafts", requireAuth(http.HandlerFunc(draftHandlers.CreateDraft)))
	mux.Handle("POST /api/profile/parse", requireAuth(http.HandlerFunc(profileHandlers.ParseProfile)))
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandlers.Me)))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authHandlers.Logout))

	// Machine surface: secrets, not sessions.
	mux.Handle("POST /api/webhooks/workflow", http.HandlerFunc(callbackHandlers.HandleResult))
	mux.Handle("POST /api/webhooks/workflow/failure", http.HandlerFunc(callbackHandlers.HandleFailure))
	mux.Handle("POST /api/jobs/check-timeouts", http.HandlerFunc(sweepHandlers.CheckTimeouts))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.IsDev {
		mux.Handle("POST /api/auth/dev-login", http.HandlerFunc(authHandlers.DevLogin))
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
