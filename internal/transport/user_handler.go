package transport

import (
	"net/http"

	"spareparts-be/internal/user"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account administration and delivery staff profiles.
type UserHandler struct {
	users user.Service
}

func NewUserHandler(users user.Service) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var p user.Params
	if !bind(c, &p) {
		return
	}
	u, err := h.users.Create(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p user.UpdateParams
	if !bind(c, &p) {
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "User deleted successfully")
}

func (h *UserHandler) ListByRole(c *gin.Context) {
	users, err := h.users.ListByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var (
		u   *user.User
		err error
	)
	if active {
		u, err = h.users.Activate(c.Request.Context(), id)
	} else {
		u, err = h.users.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Activate(c *gin.Context)   { h.setActive(c, true) }
func (h *UserHandler) Deactivate(c *gin.Context) { h.setActive(c, false) }

func (h *UserHandler) RegisterStaff(c *gin.Context) {
	var in user.StaffRegistration
	if !bind(c, &in) {
		return
	}
	staff, err := h.users.RegisterDeliveryStaff(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *UserHandler) ListStaff(c *gin.Context) {
	staff, err := h.users.ListDeliveryStaff(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *UserHandler) GetStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	staff, err := h.users.GetDeliveryStaff(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// UpdateStaff lets delivery staff edit their own profile; managers may edit any.
func (h *UserHandler) UpdateStaff(c *gin.Context) {
	who, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if who.is(user.RoleDeliveryStaff) && who.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var in user.StaffProfileUpdate
	if !bind(c, &in) {
		return
	}
	staff, err := h.users.UpdateDeliveryStaff(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}
