package services

import (
	"context"
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/policy"
)

const invalidCredentialsMsg = "Invalid email or password"

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email, name, role string) (string, time.Time, error)
}

type UserService struct {
	userRepo models.UserRepo
	tokens   TokenIssuer
}

func NewUserService(userRepo models.UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register creates a regular user. Roles are never taken from the request.
func (us *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleUser,
	}
	return us.userRepo.CreateUser(ctx, user)
}

func (us *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = helpers.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.Validation("email", "Email and password are required")
	}

	user, err := us.userRepo.GetUserByEmail(ctx, email, true)
	if errs.Is(err, errs.KindNotFound) {
		return nil, errs.Unauthorized(invalidCredentialsMsg)
	}
	if err != nil {
		return nil, err
	}
	ok, err := user.ComparePasswordErr(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Unauthorized(invalidCredentialsMsg)
	}
	user.Password = ""

	token, expires, err := us.tokens.Issue(user.ID.Hex(), user.Email, user.Name, user.Role)
	if err != nil {
		return nil, errs.Internal("failed to issue session", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expires}, nil
}

func (us *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id, "userId")
	if err != nil {
		return nil, err
	}
	return us.userRepo.GetUserByID(ctx, oid)
}

func (us *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return us.userRepo.ListUsers(ctx)
}

// UpdateRole changes a user's role after checking it against the role policy.
// The admin count is read before the write, so two admins demoting each other
// at the same moment can still both succeed.
func (us *UserService) UpdateRole(ctx context.Context, actor policy.Actor, targetID, newRole string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("Only admins can change user roles")
	}
	if !models.IsValidRole(newRole) {
		return nil, errs.Validation("role", "Invalid role. Must be 'user' or 'admin'")
	}
	oid, err := parseID(targetID, "userId")
	if err != nil {
		return nil, err
	}
	target, err := us.userRepo.GetUserByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	adminCount, err := us.userRepo.CountUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	rt := policy.RoleTarget{ID: target.ID.Hex(), Role: target.Role}
	if err := policy.CheckChangeRole(actor, rt, newRole, adminCount); err != nil {
		return nil, err
	}
	if target.Role == newRole {
		return target, nil
	}
	return us.userRepo.UpdateUserRole(ctx, oid, newRole)
}

// UpdateProfile edits the caller's own name and email. Blank fields keep their
// current value.
func (us *UserService) UpdateProfile(ctx context.Context, actor policy.Actor, name, email string) (*models.User, error) {
	if actor.ID == "" {
		return nil, errs.Unauthorized("Authentication required")
	}
	oid, err := parseID(actor.ID, "userId")
	if err != nil {
		return nil, err
	}
	if helpers.StringTrim(name) == "" && helpers.StringTrim(email) == "" {
		return nil, errs.Validation("name", "Nothing to update")
	}
	current, err := us.userRepo.GetUserByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if helpers.StringTrim(name) == "" {
		name = current.Name
	}
	if helpers.StringTrim(email) == "" {
		email = current.Email
	}
	name, email, err = models.NormalizeProfile(name, email)
	if err != nil {
		return nil, err
	}
	return us.userRepo.UpdateUserProfile(ctx, oid, name, email)
}
