package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

// AccountHandler handles the admin-only account management endpoints.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// ChangeRole handles PATCH /v1/accounts/:id/role.
//
// @Summary      Change an account's role
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/accounts/{id}/role [patch]
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.ChangeRole(c.Request().Context(), ports.ChangeRoleInput{
		Identity:  identity,
		AccountID: c.Param("id"),
		NewRole:   domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /v1/accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id  path  string  true  "Account id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ports.DeleteAccountInput{
		Identity:  identity,
		AccountID: c.Param("id"),
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
