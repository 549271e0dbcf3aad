package handler

import (
	"net/http"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/dto"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/middleware"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationsHandler struct{ svc service.LocationService }

func NewLocationsHandler(svc service.LocationService) *LocationsHandler {
	return &LocationsHandler{svc: svc}
}

// Create POST /v1/locations
func (h *LocationsHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.WorkspaceID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/locations — flat list ordered by path, the read model used
// by tree views and exports.
func (h *LocationsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.WorkspaceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /v1/locations/:id
func (h *LocationsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.WorkspaceID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rename PATCH /v1/locations/:id
func (h *LocationsHandler) Rename(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RenameLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Rename(c.Request.Context(), middleware.WorkspaceID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/locations/:id — soft delete; directly assigned boxes
// become unassigned, descendant locations are untouched.
func (h *LocationsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.SoftDelete(c.Request.Context(), middleware.WorkspaceID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
