package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/gophkeeper-session/internal/api/http/handler"
	"github.com/dtroode/gophkeeper-session/internal/api/http/middleware"
	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
)

// BasePath is where the identity routes are mounted.
const BasePath = "/api/auth"

// Router wires the identity handlers and middleware into a gorilla/mux router.
type Router struct {
	authService    handler.AuthService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the HTTP handler. Routes under the protected subrouter
// require a bearer token.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)

	root := mux.NewRouter()
	root.Use(logging.Handle)
	root.NotFoundHandler = logging.Handle(http.HandlerFunc(notFound))
	root.MethodNotAllowedHandler = logging.Handle(http.HandlerFunc(methodNotAllowed))

	public := root.PathPrefix(BasePath).Subrouter()
	public.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	public.HandleFunc("/forgot-password", auth.ForgotPassword).Methods(http.MethodPost)
	public.HandleFunc("/reset-password", auth.ResetPassword).Methods(http.MethodPost)
	public.HandleFunc("/verify-email", auth.VerifyEmail).Methods(http.MethodPost)

	protected := root.PathPrefix(BasePath).Subrouter()
	protected.Use(authenticate.Handle)
	protected.HandleFunc("/refresh", auth.Refresh).Methods(http.MethodPost)
	protected.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/profile", auth.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", auth.UpdateProfile).Methods(http.MethodPatch)
	protected.HandleFunc("/change-password", auth.ChangePassword).Methods(http.MethodPost)
	protected.HandleFunc("/2fa/enable", auth.EnableTwoFactor).Methods(http.MethodPost)
	protected.HandleFunc("/2fa/disable", auth.DisableTwoFactor).Methods(http.MethodPost)

	return root
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	handler.WriteError(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	handler.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}
