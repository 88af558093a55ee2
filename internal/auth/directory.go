package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/store"
)

// Sentinel failures of the directory. ErrUnknownUser and ErrBadPassword
// stay distinguishable for internal logging, but handlers must present
// both as the same "invalid credentials" message so login responses do
// not reveal which usernames exist.
var (
	ErrDuplicateUsername = fmt.Errorf("username already exists")
	ErrUnknownUser       = fmt.Errorf("unknown user")
	ErrBadPassword       = fmt.Errorf("bad password")
)

// DefaultRole is assigned when registration does not specify a role.
const DefaultRole = "user"

// Directory registers and authenticates users. It is stateless with
// respect to who is logged in: every call carries its own inputs and
// returns an immutable Identity.
type Directory struct {
	store store.Facade
	cost  int
}

// NewDirectory builds a Directory over the given façade with the bcrypt
// cost used for new registrations.
func NewDirectory(s store.Facade, cost int) *Directory {
	return &Directory{store: s, cost: cost}
}

// Register creates a new user. The prior lookup gives duplicate attempts
// a fast answer, but the users.username UNIQUE key is what actually
// closes the race: a concurrent duplicate insert comes back as a
// duplicate-entry violation and is reported as ErrDuplicateUsername too.
func (d *Directory) Register(ctx context.Context, username, password, role string) (model.Identity, error) {
	username = strings.TrimSpace(username)
	if role == "" {
		role = DefaultRole
	}

	row, err := d.store.QueryOne(ctx,
		"SELECT id FROM users WHERE username = ? LIMIT 1", username)
	if err != nil {
		return model.Identity{}, fmt.Errorf("register lookup: %w", err)
	}
	if row != nil {
		return model.Identity{}, ErrDuplicateUsername
	}

	hash, err := HashPassword(password, d.cost)
	if err != nil {
		return model.Identity{}, fmt.Errorf("register hash: %w", err)
	}

	if _, err := d.store.Exec(ctx,
		"INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)",
		username, hash, role); err != nil {
		if store.IsDuplicateEntry(err) {
			return model.Identity{}, ErrDuplicateUsername
		}
		return model.Identity{}, fmt.Errorf("register insert: %w", err)
	}

	return model.Identity{Username: username, PasswordHash: hash, Role: role}, nil
}

// Authenticate verifies a username/password pair and returns the stored
// identity on success.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (model.Identity, error) {
	username = strings.TrimSpace(username)

	row, err := d.store.QueryOne(ctx,
		"SELECT username, password_hash, role FROM users WHERE username = ? LIMIT 1",
		username)
	if err != nil {
		return model.Identity{}, fmt.Errorf("authenticate lookup: %w", err)
	}
	if row == nil {
		return model.Identity{}, ErrUnknownUser
	}
	if len(row) < 3 {
		return model.Identity{}, fmt.Errorf("authenticate: short credential row")
	}

	id := model.Identity{
		Username:     asString(row[0]),
		PasswordHash: asString(row[1]),
		Role:         asString(row[2]),
	}

	ok, err := VerifyPassword(password, id.PasswordHash)
	if err != nil {
		return model.Identity{}, fmt.Errorf("authenticate verify: %w", err)
	}
	if !ok {
		return model.Identity{}, ErrBadPassword
	}
	return id, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return fmt.Sprint(v)
}
