package transport

import (
	"fmt"
	"net/http"

	"spareparts-be/internal/user"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users user.Service
}

func NewAuthHandler(users user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login issues an access token.
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "Credentials"
// @Success  200 {object} user.LoginResult
// @Failure  400 {object} map[string]string
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Register creates a CUSTOMER account. Privileged roles are created by an admin.
//
// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body user.Params true "Account"
// @Success  200 {object} map[string]string
// @Failure  400 {object} map[string]string
// @Router   /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var p user.Params
	if !bind(c, &p) {
		return
	}

	u, err := h.users.Register(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	message(c, fmt.Sprintf("User registered successfully as %s", u.Role))
}
