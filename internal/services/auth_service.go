package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/repositories"
	"ticketbooking/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	minPasswordLen = 8
	resetTokenTTL  = time.Hour
)

type AuthService struct {
	Users         repositories.UserRepository
	Sessions      SessionStore
	Tokens        TokenIssuer
	SessionTTL    time.Duration
	BcryptCost    int
	PublicBaseURL string
	RequestID     string

	Now          func() time.Time
	NewSessionID func() string
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) newSessionID() string {
	if s.NewSessionID != nil {
		return s.NewSessionID()
	}
	return uuid.NewString()
}

func (s AuthService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s AuthService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token   string            `json:"token"`
	Session Session           `json:"-"`
	User    models.PublicUser `json:"user"`
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.PublicUser, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return models.PublicUser{}, domain.ValidationError{Msg: "All fields are required!"}
	}
	if !validEmail(email) {
		return models.PublicUser{}, domain.ValidationError{Field: "email", Msg: "Please enter a valid email address"}
	}
	if len(in.Password) < minPasswordLen {
		return models.PublicUser{}, domain.ValidationError{Field: "password", Msg: "Password must be at least 8 characters long"}
	}

	n, err := s.Users.CountByEmailOrUsername(ctx, email, username, 0)
	if err != nil {
		return models.PublicUser{}, err
	}
	if n > 0 {
		return models.PublicUser{}, domain.ConflictError{Msg: "Email or username already exists!"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return models.PublicUser{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	u := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    s.now(),
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.PublicUser{}, err
	}
	u.ID = id
	utils.LogEvent(s.RequestID, "auth", "register", fmt.Sprintf("user_id=%d", id))
	return u.ToPublic(), nil
}

// Login checks credentials and opens a new session.
func (s AuthService) Login(ctx context.Context, login, password string) (LoginResult, error) {
	invalid := domain.UnauthorizedError{Msg: "Invalid email or password!"}

	u, err := s.Users.FindByLogin(ctx, login)
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, invalid
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, invalid
	}

	now := s.now()
	sess := Session{
		ID:        s.newSessionID(),
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return LoginResult{}, domain.InternalError{Msg: "failed to create session", Err: err}
	}
	token, err := s.Tokens.Issue(sess)
	if err != nil {
		_ = s.Sessions.Delete(ctx, sess.ID)
		return LoginResult{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}

	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return LoginResult{Token: token, Session: sess, User: u.ToPublic()}, nil
}

// Logout destroys the session. Unknown sessions are not an error.
func (s AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return domain.InternalError{Msg: "failed to end session", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "logout", "session closed")
	return nil
}

// ForgotPassword stores a one-hour reset token and returns the reset link.
// Delivery is out of band; the link is logged.
func (s AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.ValidationError{Field: "email", Msg: "Email is required"}
	}
	u, err := s.Users.FindByLogin(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.NotFoundError{Resource: "User with this email"}
		}
		return "", err
	}

	token, err := randomToken(32)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to generate token", Err: err}
	}
	if err := s.Users.SetResetToken(ctx, u.ID, token, s.now().Add(resetTokenTTL)); err != nil {
		return "", err
	}

	link := strings.TrimRight(s.PublicBaseURL, "/") + "/reset-password?token=" + token
	utils.LogEvent(s.RequestID, "auth", "forgot_password", fmt.Sprintf("user_id=%d link=%s", u.ID, link))
	return link, nil
}

func (s AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return domain.ValidationError{Msg: "Token and new password are required!"}
	}
	if len(newPassword) < minPasswordLen {
		return domain.ValidationError{Field: "password", Msg: "Password must be at least 8 characters long"}
	}
	invalid := domain.ValidationError{Field: "token", Msg: "Invalid or expired token!"}

	u, err := s.Users.FindByResetToken(ctx, token)
	if err != nil {
		if domain.IsNotFound(err) {
			return invalid
		}
		return err
	}
	if u.ResetExpiresAt.IsZero() || !s.now().Before(u.ResetExpiresAt) {
		return invalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost())
	if err != nil {
		return domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "reset_password", fmt.Sprintf("user_id=%d", u.ID))
	return nil
}

func (s AuthService) Profile(ctx context.Context, sess Session) (models.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

type ProfileInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfile changes username and/or email; empty fields keep their value.
func (s AuthService) UpdateProfile(ctx context.Context, sess Session, in ProfileInput) (models.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return models.PublicUser{}, err
	}
	if v := strings.TrimSpace(in.Username); v != "" {
		u.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		if !validEmail(v) {
			return models.PublicUser{}, domain.ValidationError{Field: "email", Msg: "Please enter a valid email address"}
		}
		u.Email = v
	}

	n, err := s.Users.CountByEmailOrUsername(ctx, u.Email, u.Username, u.ID)
	if err != nil {
		return models.PublicUser{}, err
	}
	if n > 0 {
		return models.PublicUser{}, domain.ConflictError{Msg: "Email or username already exists!"}
	}
	if err := s.Users.UpdateProfile(ctx, u.ID, u.Username, u.Email); err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
