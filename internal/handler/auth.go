package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarov/intelconsole/internal/auth"
	"github.com/mkarov/intelconsole/internal/queue"
	queue_publisher "github.com/mkarov/intelconsole/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints. No tokens are
// issued: register and login return the identity and the caller keeps
// its own logged-in flag.
type AuthHandler struct {
	Directory *auth.Directory
	// Publish emits the registration audit event; swappable in tests.
	Publish func(context.Context, queue.UserRegisteredEvent) error
}

func NewAuthHandler(d *auth.Directory) *AuthHandler {
	return &AuthHandler{Directory: d, Publish: queue_publisher.PublishUserRegistered}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional, defaults to "user"
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type userResp struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register creates a new account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Directory.Register(ctx, req.Username, req.Password, strings.TrimSpace(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateUsername):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		case errors.Is(err, auth.ErrPasswordTooLong):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too long"})
		default:
			log.Printf("auth: register failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
		}
	}

	// Audit trail is best effort; the broker being down must not fail
	// the registration.
	go func(ev queue.UserRegisteredEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = h.Publish(pubCtx, ev)
	}(queue.UserRegisteredEvent{
		Username:     id.Username,
		Role:         id.Role,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, userResp{Username: id.Username, Role: id.Role})
}

// Login verifies credentials. Unknown usernames and wrong passwords are
// logged apart but answered identically, so responses cannot be used to
// enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Directory.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownUser):
			log.Printf("auth: login rejected (unknown user)")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrBadPassword):
			log.Printf("auth: login rejected (bad password)")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		default:
			log.Printf("auth: login failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
	}

	return c.JSON(http.StatusOK, userResp{Username: id.Username, Role: id.Role})
}
