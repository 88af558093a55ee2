package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkarov/intelconsole/internal/store"
	"github.com/mkarov/intelconsole/internal/store/storetest"
)

func newTestDirectory() (*Directory, *storetest.Fake) {
	fake := storetest.New()
	return NewDirectory(fake, bcrypt.MinCost), fake
}

func TestRegisterAndAuthenticate(t *testing.T) {
	d, fake := newTestDirectory()
	ctx := context.Background()

	id, err := d.Register(ctx, "alice", "pw1", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, DefaultRole, id.Role, "unspecified role defaults to user")
	assert.NotEqual(t, "pw1", id.PasswordHash)
	assert.Contains(t, fake.Users, "alice")

	got, err := d.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	d, _ := newTestDirectory()
	ctx := context.Background()

	_, err := d.Register(ctx, "alice", "pw1", "")
	require.NoError(t, err)

	_, err = d.Register(ctx, "alice", "pw2", "")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// The stored credential still belongs to the first registration.
	_, err = d.Authenticate(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrBadPassword)
	_, err = d.Authenticate(ctx, "alice", "pw1")
	assert.NoError(t, err)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	// A racing insert slips past the lookup and hits the storage UNIQUE
	// key; the resulting 1062 must still surface as ErrDuplicateUsername.
	fake := storetest.New()
	fake.Users["alice"] = storetest.User{Hash: "$2a$04$existing", Role: "user"}
	d := NewDirectory(&raceFacade{Fake: fake}, bcrypt.MinCost)

	_, err := d.Register(context.Background(), "alice", "pw1", "")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

// raceFacade answers every lookup with "absent" so inserts always reach
// the fake's duplicate-key check, imitating a lost check-then-insert race.
type raceFacade struct {
	*storetest.Fake
}

func (r *raceFacade) QueryOne(ctx context.Context, query string, args ...any) (store.Row, error) {
	return nil, nil
}

func TestAuthenticateUnknownUser(t *testing.T) {
	d, _ := newTestDirectory()

	_, err := d.Authenticate(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestAuthenticateBadPassword(t *testing.T) {
	d, _ := newTestDirectory()
	ctx := context.Background()

	_, err := d.Register(ctx, "bob", "right", "")
	require.NoError(t, err)

	_, err = d.Authenticate(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)
}

func TestDirectoryTranslatesStorageErrors(t *testing.T) {
	d, fake := newTestDirectory()
	ctx := context.Background()

	fake.QueryErr = &store.StorageError{Op: store.OpRead, Err: fmt.Errorf("connection refused")}

	_, err := d.Register(ctx, "alice", "pw", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)

	_, err = d.Authenticate(ctx, "alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownUser)
	assert.NotErrorIs(t, err, ErrBadPassword)

	var se *store.StorageError
	assert.True(t, errors.As(err, &se), "storage detail stays inspectable internally")
}
