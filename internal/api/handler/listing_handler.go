package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

// ListingHandler handles HTTP requests for listing operations. Errors from
// the service layer bubble up to the central error handler, which maps the
// closed set of denial reasons onto status codes.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles POST /v1/listings.
//
// @Summary      Create a new listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing details"
// @Success      201   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.service.Create(c.Request().Context(), ports.CreateListingInput{
		Identity:           identity,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Price:              req.Price,
		Currency:           req.Currency,
		PublishImmediately: req.PublishImmediately,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toListingResponse(detail))
}

// Get handles GET /v1/listings/:id. Works with or without a session: the
// service widens visibility for owners and admins.
//
// @Summary      Get a listing by id
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "Listing id (e.g. LST-7A8B9C2D)"
// @Success      200  {object}  listingResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), ports.GetListingInput{
		ID:       c.Param("id"),
		Identity: ctxOptionalIdentity(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(detail))
}

// ListPublic handles GET /v1/listings. Only published listings appear.
//
// @Summary      Browse published listings
// @Tags         listings
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        q         query     string  false  "Search in titles"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  listListingsResponse
// @Router       /v1/listings [get]
func (h *ListingHandler) ListPublic(c echo.Context) error {
	page, limit := pageParams(c)
	result, err := h.service.ListPublic(c.Request().Context(), ports.ListPublicInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("q"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// ListForModeration handles GET /v1/moderation/listings. Moderators see
// their own submissions in every state; admins see everything.
//
// @Summary      Moderation dashboard listing
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        state  query     string  false  "Filter by publication state"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  listListingsResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/moderation/listings [get]
func (h *ListingHandler) ListForModeration(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	result, err := h.service.ListForModeration(c.Request().Context(), ports.ListModerationInput{
		Identity: identity,
		State:    c.QueryParam("state"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Update handles PATCH /v1/listings/:id.
//
// @Summary      Edit a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing id"
// @Param        body  body      updateListingRequest  true  "Fields to change"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/listings/{id} [patch]
func (h *ListingHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.service.Update(c.Request().Context(), ports.UpdateListingInput{
		Identity: identity,
		ID:       c.Param("id"),
		Changes:  toChangeSet(req),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(detail))
}

// Delete handles DELETE /v1/listings/:id.
//
// @Summary      Delete a listing
// @Tags         listings
// @Security     BearerAuth
// @Param        id  path  string  true  "Listing id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ports.DeleteListingInput{
		Identity: identity,
		ID:       c.Param("id"),
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetPublicationState handles POST /v1/listings/:id/publication.
//
// @Summary      Transition a listing's publication state
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Listing id"
// @Param        body  body      setPublicationStateRequest  true  "Target state"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/listings/{id}/publication [post]
func (h *ListingHandler) SetPublicationState(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setPublicationStateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.service.SetPublicationState(c.Request().Context(), ports.SetPublicationStateInput{
		Identity: identity,
		ID:       c.Param("id"),
		Target:   domain.PublicationState(req.State),
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(detail))
}

// SetFeatured handles PUT /v1/listings/:id/featured.
//
// @Summary      Set the featured flag on a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Listing id"
// @Param        body  body      setFeaturedRequest  true  "Featured flag"
// @Success      200   {object}  listingResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/listings/{id}/featured [put]
func (h *ListingHandler) SetFeatured(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setFeaturedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	detail, err := h.service.SetFeatured(c.Request().Context(), ports.SetFeaturedInput{
		Identity: identity,
		ID:       c.Param("id"),
		Featured: req.Featured,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(detail))
}

// pageParams parses the common page/limit query parameters. Defaults and
// caps are applied by the service.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
