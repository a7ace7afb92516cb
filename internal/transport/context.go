package transport

import (
	"errors"
	"net/http"
	"strconv"

	"spareparts-be/internal/logger"
	"spareparts-be/internal/user"
	"spareparts-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidID      = errors.New("invalid id")
	errInvalidPayload = errors.New("invalid request payload")
	errNotAuthorized  = errors.New("authentication required")
)

// caller is the authenticated user attached to a request by AuthMiddleware.
type caller struct {
	ID       int64
	Username string
	Role     user.Role
}

func (c caller) is(roles ...user.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

func callerFrom(c *gin.Context) (caller, bool) {
	ctx := c.Request.Context()
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return caller{}, false
	}
	return caller{
		ID:       id,
		Username: utils.GetUsernameFromContext(ctx),
		Role:     user.Role(utils.GetUserRoleFromContext(ctx)),
	}, true
}

// mustCaller writes a 401 and returns false when the request is anonymous.
func mustCaller(c *gin.Context) (caller, bool) {
	who, ok := callerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthorized.Error()})
	}
	return who, ok
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		fail(c, errInvalidID)
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := utils.ParseID(raw)
	if err != nil {
		return nil, errInvalidID
	}
	return &id, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// fail reports any workflow error as 400 {"error": message}.
func fail(c *gin.Context, err error) {
	logger.FromCtx(c.Request.Context()).Warn("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, errInvalidPayload)
		return false
	}
	return true
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
