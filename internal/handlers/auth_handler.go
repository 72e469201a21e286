package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/middleware"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

func Register(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.RegisterInput
		if err := c.ShouldBind(&req); err != nil {
			badPayload(c, err)
			return
		}

		user, err := u.Register(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(user, "User registered successfully"))
	}
}

// Login checks credentials and sets the session cookie. The token is also
// returned in the body for clients that send it as a bearer token.
func Login(u *services.UserService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" form:"email" binding:"required"`
			Password string `json:"password" form:"password" binding:"required"`
		}
		if err := c.ShouldBind(&req); err != nil {
			badPayload(c, err)
			return
		}

		res, err := u.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}

		maxAge := int(time.Until(res.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessTokenCookie, res.Token, maxAge, "/", "", secureCookies, true)

		c.JSON(http.StatusOK, models.SuccessResponse(res, "Logged in successfully"))
	}
}

func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}
