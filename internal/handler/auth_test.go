package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkarov/intelconsole/internal/auth"
	"github.com/mkarov/intelconsole/internal/queue"
	"github.com/mkarov/intelconsole/internal/store/storetest"
)

type publishRecorder struct {
	mu     sync.Mutex
	events []queue.UserRegisteredEvent
	done   chan struct{}
}

func newPublishRecorder() *publishRecorder {
	return &publishRecorder{done: make(chan struct{}, 8)}
}

func (p *publishRecorder) publish(_ context.Context, ev queue.UserRegisteredEvent) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func newAuthTest() (*echo.Echo, *AuthHandler, *publishRecorder) {
	e := echo.New()
	fake := storetest.New()
	h := NewAuthHandler(auth.NewDirectory(fake, bcrypt.MinCost))
	rec := newPublishRecorder()
	h.Publish = rec.publish
	return e, h, rec
}

func postJSON(e *echo.Echo, path, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestRegisterCreatesUser(t *testing.T) {
	e, h, pub := newAuthTest()

	rec := postJSON(e, "/v1/auth/register", `{"username":"alice","password":"pw1"}`, h.Register)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"username":"alice","role":"user"}`, rec.Body.String())

	<-pub.done
	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	assert.Equal(t, "alice", pub.events[0].Username)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	e, h, pub := newAuthTest()

	rec := postJSON(e, "/v1/auth/register", `{"username":"alice","password":"pw1"}`, h.Register)
	require.Equal(t, http.StatusCreated, rec.Code)
	<-pub.done

	rec = postJSON(e, "/v1/auth/register", `{"username":"alice","password":"pw2"}`, h.Register)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e, h, _ := newAuthTest()

	rec := postJSON(e, "/v1/auth/register", `{"username":"","password":""}`, h.Register)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	e, h, pub := newAuthTest()

	rec := postJSON(e, "/v1/auth/register", `{"username":"alice","password":"pw1","role":"admin"}`, h.Register)
	require.Equal(t, http.StatusCreated, rec.Code)
	<-pub.done

	rec = postJSON(e, "/v1/auth/login", `{"username":"alice","password":"pw1"}`, h.Login)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","role":"admin"}`, rec.Body.String())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e, h, pub := newAuthTest()

	rec := postJSON(e, "/v1/auth/register", `{"username":"alice","password":"right"}`, h.Register)
	require.Equal(t, http.StatusCreated, rec.Code)
	<-pub.done

	unknown := postJSON(e, "/v1/auth/login", `{"username":"nobody","password":"right"}`, h.Login)
	badPass := postJSON(e, "/v1/auth/login", `{"username":"alice","password":"wrong"}`, h.Login)

	// Same status and same body: the response must not reveal whether the
	// username exists.
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, badPass.Code)
	assert.Equal(t, unknown.Body.String(), badPass.Body.String())
}
