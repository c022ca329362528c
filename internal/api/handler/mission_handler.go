package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// MissionHandler serves the mission catalog and mission completion.
type MissionHandler struct {
	catalog ports.CatalogService
	ledger  ports.LedgerService
}

func NewMissionHandler(catalog ports.CatalogService, ledger ports.LedgerService) *MissionHandler {
	return &MissionHandler{catalog: catalog, ledger: ledger}
}

// List handles GET /v1/missions.
//
// @Summary      List active missions
// @Tags         missions
// @Produce      json
// @Success      200  {array}   domain.Mission
// @Failure      503  {object}  ErrorResponse
// @Router       /v1/missions [get]
func (h *MissionHandler) List(c echo.Context) error {
	missions, err := h.catalog.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, missions)
}

// Get handles GET /v1/missions/:id. Inactive missions are still returned so
// clients can render completed history.
//
// @Summary      Get a mission
// @Tags         missions
// @Produce      json
// @Param        id   path      string  true  "Mission id"
// @Success      200  {object}  domain.Mission
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/missions/{id} [get]
func (h *MissionHandler) Get(c echo.Context) error {
	m, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Publish handles POST /v1/missions.
//
// @Summary      Publish a mission
// @Tags         missions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      publishMissionRequest  true  "Mission definition"
// @Success      201   {object}  domain.Mission
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/missions [post]
func (h *MissionHandler) Publish(c echo.Context) error {
	var req publishMissionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	m, err := h.catalog.Publish(c.Request().Context(), toMission(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// Deactivate handles POST /v1/missions/:id/deactivate.
//
// @Summary      Deactivate a mission
// @Tags         missions
// @Security     BearerAuth
// @Param        id   path  string  true  "Mission id"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/missions/{id}/deactivate [post]
func (h *MissionHandler) Deactivate(c echo.Context) error {
	if err := h.catalog.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Complete handles POST /v1/missions/complete for the authenticated user.
//
// @Summary      Complete a mission
// @Description  Credits the mission reward once. A repeat returns 409 with reason already_completed and safeToIgnore=true.
// @Tags         missions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      completeMissionRequest  true  "Mission to complete"
// @Success      200   {object}  completeMissionResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /v1/missions/complete [post]
func (h *MissionHandler) Complete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req completeMissionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.ledger.ApplyReward(c.Request().Context(), claims.UserID, req.MissionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompleteResponse(result))
}

