// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/bughive/bughive/internal/app/features/accounts"
	authgooglefeature "github.com/bughive/bughive/internal/app/features/authgoogle"
	commentsfeature "github.com/bughive/bughive/internal/app/features/comments"
	healthfeature "github.com/bughive/bughive/internal/app/features/health"
	projectsfeature "github.com/bughive/bughive/internal/app/features/projects"
	ticketsfeature "github.com/bughive/bughive/internal/app/features/tickets"
	workspacesfeature "github.com/bughive/bughive/internal/app/features/workspaces"
	"github.com/bughive/bughive/internal/app/policy/access"
	commentstore "github.com/bughive/bughive/internal/app/store/comments"
	membershipstore "github.com/bughive/bughive/internal/app/store/memberships"
	"github.com/bughive/bughive/internal/app/store/oauthstate"
	"github.com/bughive/bughive/internal/app/store/projectmembers"
	projectstore "github.com/bughive/bughive/internal/app/store/projects"
	sessionstore "github.com/bughive/bughive/internal/app/store/sessions"
	ticketstore "github.com/bughive/bughive/internal/app/store/tickets"
	userstore "github.com/bughive/bughive/internal/app/store/users"
	workspacestore "github.com/bughive/bughive/internal/app/store/workspaces"
	"github.com/bughive/bughive/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. BugHive wires the session
// manager, the stores, the access checker, and the feature routers:
// account auth under /auth and /me, then the workspace tree with its
// nested project, ticket, and comment routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	sessStore := sessionstore.New(db)
	stateStore := oauthstate.New(db)
	workspaces := workspacestore.New(db)
	members := membershipstore.New(db)
	projects := projectstore.New(db)
	projMembers := projectmembers.New(db)
	tickets := ticketstore.New(db)
	comments := commentstore.New(db)

	// The cookie carries only an opaque token; each request resolves it
	// against the session registry and refetches the user, so session
	// revocation and role changes take effect on the next request.
	sessionMgr.SetRegistry(sessStore)
	sessionMgr.SetUserFetcher(users)

	checker := access.New(members, projMembers, tickets)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if the
	// request carries a live session.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Account registration, login, logout, and current-user lookup.
	accountsHandler := accountsfeature.NewHandler(users, sessStore, sessionMgr, appCfg.SessionTTL, logger)
	r.Mount("/", accountsfeature.Routes(accountsHandler, sessionMgr))

	// Google sign-in for existing accounts.
	googleHandler := authgooglefeature.NewHandler(
		users, sessStore, stateStore, sessionMgr, appCfg.SessionTTL,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// The workspace tree. Child routers are built by their features and
	// mounted by their parents so the chi URL params nest naturally.
	commentsHandler := &commentsfeature.Handler{
		Log:      logger,
		Access:   checker,
		Tickets:  tickets,
		Comments: comments,
	}
	commentRoutes := commentsfeature.Routes(commentsHandler, sessionMgr)

	ticketsHandler := &ticketsfeature.Handler{
		Log:         logger,
		Client:      deps.MongoClient,
		Access:      checker,
		Members:     members,
		Projects:    projects,
		ProjMembers: projMembers,
		Tickets:     tickets,
		Comments:    comments,
	}
	projectTicketRoutes := ticketsfeature.ProjectRoutes(ticketsHandler, sessionMgr)
	ticketRoutes := ticketsfeature.Routes(ticketsHandler, sessionMgr, commentRoutes)

	projectsHandler := &projectsfeature.Handler{
		Log:         logger,
		Client:      deps.MongoClient,
		Access:      checker,
		Members:     members,
		Projects:    projects,
		ProjMembers: projMembers,
		Tickets:     tickets,
		Comments:    comments,
	}
	projectRoutes := projectsfeature.Routes(projectsHandler, sessionMgr, projectTicketRoutes)

	workspacesHandler := &workspacesfeature.Handler{
		Log:         logger,
		Client:      deps.MongoClient,
		Access:      checker,
		Workspaces:  workspaces,
		Members:     members,
		Users:       users,
		Projects:    projects,
		ProjMembers: projMembers,
		Tickets:     tickets,
		Comments:    comments,
		Sessions:    sessStore,
	}
	r.Mount("/workspaces", workspacesfeature.Routes(workspacesHandler, sessionMgr, projectRoutes, ticketRoutes))

	return r, nil
}
