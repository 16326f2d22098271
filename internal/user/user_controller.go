package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/futsapp/pkg/responses"
	"github.com/DhavalSuthar-24/futsapp/pkg/validator"
)

// UserController exposes the user store.
type UserController struct {
	store *Store
}

func NewUserController(store *Store) *UserController {
	return &UserController{store: store}
}

// SignIn godoc
// @Summary Sign in
// @Description Signs in the stand-in local user with the player role
// @Tags session
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=MeResponse}
// @Router /session [post]
func (uc *UserController) SignIn(c *gin.Context) {
	u := uc.store.SignIn()
	responses.SendSuccess(c, http.StatusOK, "Signed in", MeResponse{User: u, Permissions: GetRolePermissions(u.Role)})
}

// SignOut godoc
// @Summary Sign out
// @Tags session
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Router /session [delete]
func (uc *UserController) SignOut(c *gin.Context) {
	uc.store.SignOut()
	responses.SendSuccess(c, http.StatusOK, "Signed out", nil)
}

// GetMe godoc
// @Summary Current user
// @Description Returns the signed-in user and the permissions derived from its role
// @Tags users
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=MeResponse}
// @Failure 401 {object} responses.ErrorResponse
// @Router /me [get]
func (uc *UserController) GetMe(c *gin.Context) {
	u, ok := uc.store.CurrentUser()
	if !ok {
		responses.Unauthorized(c, "Sign in required")
		return
	}
	perms, _ := uc.store.Permissions()
	responses.SendSuccess(c, http.StatusOK, "", MeResponse{User: u, Permissions: perms})
}

// UpdateRole godoc
// @Summary Change own role
// @Tags users
// @Accept json
// @Produce json
// @Param body body UpdateRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse{data=MeResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /me/role [put]
func (uc *UserController) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		if errors.Is(err, ErrUnknownRole) {
			responses.ValidationFailed(c, map[string]string{"role": err.Error()})
			return
		}
		responses.InternalServerError(c, "")
		return
	}

	if !uc.store.UpdateUserRole(role) {
		responses.Unauthorized(c, "Sign in required")
		return
	}

	u, _ := uc.store.CurrentUser()
	perms, _ := uc.store.Permissions()
	responses.SendSuccess(c, http.StatusOK, "Role updated", MeResponse{User: u, Permissions: perms})
}
