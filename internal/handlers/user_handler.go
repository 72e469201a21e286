package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

func ListUsers(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := u.ListUsers(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(users, ""))
	}
}

func UpdateUserRole(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Role string `json:"role" form:"role" binding:"required"`
		}
		if err := c.ShouldBind(&req); err != nil {
			fail(c, errs.Validation("role", "Invalid role. Must be 'user' or 'admin'"))
			return
		}

		user, err := u.UpdateRole(c.Request.Context(), sessionActor(c), c.Param("id"), req.Role)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "User role updated successfully"))
	}
}

func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := u.GetUser(c.Request.Context(), sessionActor(c).ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name  string `json:"name" form:"name"`
			Email string `json:"email" form:"email"`
		}
		if err := c.ShouldBind(&req); err != nil {
			badPayload(c, err)
			return
		}

		user, err := u.UpdateProfile(c.Request.Context(), sessionActor(c), req.Name, req.Email)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Profile updated successfully"))
	}
}
