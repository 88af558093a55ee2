// Package router wires the console's HTTP routes. The handlers are the
// presentation layer; everything they touch goes through the account
// directory, the record repositories and the assistant sessions.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mkarov/intelconsole/internal/config"
	"github.com/mkarov/intelconsole/internal/handler"
	"github.com/mkarov/intelconsole/internal/middleware"
)

// RegisterRoutes registers routes that do not belong to a feature
// handler. Currently this is only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration and login under /v1/auth. Both are
// guarded by the Redis token bucket: they are the only routes worth
// brute-forcing. rdb may be nil, in which case the limiter is a no-op.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterRecords registers the domain record routes for incidents,
// datasets and tickets.
func RegisterRecords(e *echo.Echo, inc *handler.IncidentHandler, ds *handler.DatasetHandler, tk *handler.TicketHandler) {
	e.GET("/v1/incidents", inc.List)
	e.POST("/v1/incidents", inc.Create)
	e.GET("/v1/incidents/:id", inc.Get)
	e.PATCH("/v1/incidents/:id", inc.Update)
	e.DELETE("/v1/incidents/:id", inc.Delete)

	e.GET("/v1/datasets", ds.List)
	e.POST("/v1/datasets", ds.Create)
	e.GET("/v1/datasets/:id", ds.Get)

	e.GET("/v1/tickets", tk.List)
	e.POST("/v1/tickets", tk.Create)
	e.GET("/v1/tickets/:id", tk.Get)
	e.PATCH("/v1/tickets/:id", tk.Update)
}

// RegisterAssistant registers the analysis session routes.
func RegisterAssistant(e *echo.Echo, a *handler.AssistantHandler) {
	e.POST("/v1/assistant/sessions", a.CreateSession)
	e.GET("/v1/assistant/sessions/:id", a.GetTranscript)
	e.POST("/v1/assistant/sessions/:id/messages", a.SendMessage)
	e.POST("/v1/assistant/sessions/:id/reset", a.ResetSession)
	e.DELETE("/v1/assistant/sessions/:id", a.DeleteSession)
}
