package helpers

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/devevent/internal/policy"
)

// Claims is the session payload: who the caller is and which role they hold.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Helper methods for role checking
func (c *Claims) IsAdmin() bool {
	return c.Role == policy.RoleAdmin
}

func (c *Claims) GetSafeRole() string {
	if c.Role == "" {
		return policy.RoleUser
	}
	return c.Role
}

// Actor converts the session into the policy's view of the caller.
func (c *Claims) Actor() policy.Actor {
	if c == nil {
		return policy.Actor{}
	}
	return policy.Actor{ID: c.UserID, Role: c.GetSafeRole()}
}
