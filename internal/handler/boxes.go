package handler

import (
	"net/http"
	"strconv"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/apierror"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/dto"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/middleware"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoxesHandler struct{ svc service.BoxService }

func NewBoxesHandler(svc service.BoxService) *BoxesHandler {
	return &BoxesHandler{svc: svc}
}

// Create POST /v1/boxes
func (h *BoxesHandler) Create(c *gin.Context) {
	var req dto.CreateBoxRequest
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

// Search GET /v1/boxes?q=&location_id=&limit=&offset=
func (h *BoxesHandler) Search(c *gin.Context) {
	q, ok := parseSearchQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), middleware.WorkspaceID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /v1/boxes/:id
func (h *BoxesHandler) Get(c *gin.Context) {
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

// Update PATCH /v1/boxes/:id
func (h *BoxesHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBoxRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.WorkspaceID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/boxes/:id
func (h *BoxesHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.WorkspaceID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// DuplicateCheck GET /v1/boxes/duplicate-check?name=&exclude_id=
// Advisory only: the check fails open, so the response is always 200 with a
// best-effort answer.
func (h *BoxesHandler) DuplicateCheck(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, apierror.New("name is required"))
		return
	}
	var excludeID *uuid.UUID
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid exclude_id"))
			return
		}
		excludeID = &id
	}
	resp := h.svc.CheckDuplicateName(c.Request.Context(), middleware.WorkspaceID(c), name, excludeID)
	c.JSON(http.StatusOK, resp)
}

// parseSearchQuery reads the search query string by hand: limit/offset must
// be rejected (not silently clamped) when out of range, and a supplied but
// blank q must be distinguishable from an absent one.
func parseSearchQuery(c *gin.Context) (dto.SearchBoxesQuery, bool) {
	var q dto.SearchBoxesQuery
	if raw, supplied := c.GetQuery("q"); supplied {
		if raw == "" {
			// An empty q is a caller mistake, not a "no filter" request.
			c.JSON(http.StatusBadRequest, apierror.New("q must not be empty"))
			return q, false
		}
		q.Query = raw
	}

	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid location_id"))
			return q, false
		}
		q.LocationID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid limit"))
			return q, false
		}
		q.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid offset"))
			return q, false
		}
		q.Offset = n
	}
	return q, true
}
