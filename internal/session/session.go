// Package session keeps the locally registered users and the signed-in
// identity in the app directory.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/filelock"
)

// File names under the app directory.
const (
	UsersFile   = "users.json"
	CurrentFile = "current_user.json"
	lockFile    = ".session.lock"
	fileMode    = 0o600
)

// User is a locally registered account. Password holds a bcrypt hash and
// is never written to the current-user file.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar,omitempty"`
	Password string    `json:"password,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Created  time.Time `json:"created"`
}

// Public returns a copy without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// DisplayName returns the name, falling back to email or phone.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.Phone
	}
}

// Accessor yields the signed-in user.
type Accessor interface {
	Current() (*User, error)
}

// Store reads and writes the session files in one directory.
type Store struct {
	dir  string
	cost int
	log  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBcryptCost overrides the hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, cost: bcrypt.DefaultCost, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the session files.
func (s *Store) Dir() string { return s.dir }

// CurrentPath returns the path of the signed-in user file.
func (s *Store) CurrentPath() string { return filepath.Join(s.dir, CurrentFile) }

func (s *Store) usersPath() string { return filepath.Join(s.dir, UsersFile) }

// Registration is the sign-up form.
type Registration struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Avatar          string // data URI, see AvatarDataURI
}

// Validate returns per-field messages for an incomplete form.
func (r Registration) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	if r.Password == "" {
		errs["password"] = "Password is required"
	}
	if r.Password != r.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.Phone) == "" {
		errs["email"] = "Either email or phone is required"
		errs["phone"] = "Either email or phone is required"
	}
	return errs
}

// Register stores a new user and signs them in.
func (s *Store) Register(r Registration, now time.Time) (*User, error) {
	if errs := r.Validate(); len(errs) > 0 {
		details := make(map[string]any, len(errs))
		for k, v := range errs {
			details[k] = v
		}
		return nil, clierr.New(clierr.InvalidInput, "registration form is incomplete").WithDetails(details)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(r.Name),
		Avatar:   r.Avatar,
		Password: string(hash),
		Email:    strings.TrimSpace(r.Email),
		Phone:    strings.TrimSpace(r.Phone),
		Created:  now,
	}

	err = s.withLock(func() error {
		users, err := s.readUsers()
		if err != nil {
			return err
		}
		for _, existing := range users {
			if matches(existing, u.Email) || matches(existing, u.Phone) {
				return clierr.New(clierr.UserExists, "a user with this email or phone already exists").
					WithDetails(map[string]any{"email": u.Email, "phone": u.Phone})
			}
		}
		users = append(users, u)
		if err := writeJSON(s.usersPath(), users); err != nil {
			return err
		}
		return writeJSON(s.CurrentPath(), u.Public())
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "id", u.ID)
	pub := u.Public()
	return &pub, nil
}

// Login signs in the user whose email or phone equals identifier.
func (s *Store) Login(identifier, password string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	var signedIn *User
	err := s.withLock(func() error {
		users, err := s.readUsers()
		if err != nil {
			return err
		}
		for _, u := range users {
			if !matches(u, identifier) {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
				break
			}
			pub := u.Public()
			signedIn = &pub
			return writeJSON(s.CurrentPath(), pub)
		}
		return clierr.New(clierr.InvalidCredentials, "Invalid email/phone or password")
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user signed in", "id", signedIn.ID)
	return signedIn, nil
}

// Logout clears the signed-in user. Logging out twice is not an error.
func (s *Store) Logout() error {
	return s.withLock(func() error {
		err := os.Remove(s.CurrentPath())
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
}

// Current returns the signed-in user. A missing or unreadable session is
// reported as NOT_LOGGED_IN; malformed data is logged and treated the same.
func (s *Store) Current() (*User, error) {
	data, err := os.ReadFile(s.CurrentPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, notLoggedIn(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil || u.ID == "" {
		if err == nil {
			err = errors.New("missing user id")
		}
		s.log.Warn("discarding malformed session", "path", s.CurrentPath(), "error", err)
		return nil, notLoggedIn(clierr.Wrap(clierr.ParseError, "malformed session file", err))
	}
	return &u, nil
}

func notLoggedIn(cause error) error {
	e := clierr.New(clierr.NotLoggedIn, "not logged in: run 'dayplan login' or 'dayplan register'")
	e.Err = cause
	return e
}

func matches(u User, identifier string) bool {
	if identifier == "" {
		return false
	}
	return strings.EqualFold(u.Email, identifier) || u.Phone == identifier
}

func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	unlock, err := filelock.Lock(filepath.Join(s.dir, lockFile))
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock
	return fn()
}

func (s *Store) readUsers() ([]User, error) {
	data, err := os.ReadFile(s.usersPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, clierr.Wrap(clierr.ParseError, "users file is malformed", err).
			WithDetails(map[string]any{"path": s.usersPath()})
	}
	return users, nil
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
