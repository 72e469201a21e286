package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/middleware"
	"github.com/joshua-takyi/devevent/internal/policy"
)

// fail hands err to the ErrorHandler middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func badPayload(c *gin.Context, err error) {
	fail(c, errs.Validation("body", "Invalid request payload: "+err.Error()))
}

// sessionActor returns the caller as the policy sees it; anonymous callers
// get a zero Actor.
func sessionActor(c *gin.Context) policy.Actor {
	return middleware.CurrentUser(c).Actor()
}

func session(c *gin.Context) *helpers.Claims {
	return middleware.CurrentUser(c)
}

// queryInt reads a non-negative integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errs.Validation(name, "invalid "+name+" parameter")
	}
	return v, nil
}
