package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/listado/marketplace-api/internal/core/ports"
)

// AuditHandler exposes the moderation audit trail. Routes are admin-only,
// enforced by the RBAC middleware.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListEvents handles GET /v1/moderation/listings/:id/events.
//
// @Summary      List moderation events for a listing
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Listing id"
// @Param        limit  query     int     false  "Maximum events to return"
// @Success      200    {array}   moderationEventResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/moderation/listings/{id}/events [get]
func (h *AuditHandler) ListEvents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.repo.ListByListing(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}
