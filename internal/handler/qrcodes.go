package handler

import (
	"net/http"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/dto"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/middleware"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

type QrCodesHandler struct {
	svc      service.QrCodeService
	printSvc service.PrintJobService
}

func NewQrCodesHandler(svc service.QrCodeService, printSvc service.PrintJobService) *QrCodesHandler {
	return &QrCodesHandler{svc: svc, printSvc: printSvc}
}

// GenerateBatch POST /v1/qrcodes/batch
func (h *QrCodesHandler) GenerateBatch(c *gin.Context) {
	var req dto.GenerateQrBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerateBatch(c.Request.Context(), middleware.WorkspaceID(c), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/qrcodes?status=
func (h *QrCodesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.WorkspaceID(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resolve GET /v1/qrcodes/resolve/:token — the scan entry point: an
// assigned code carries its box, an available one routes the client to
// pre-filled box creation.
func (h *QrCodesHandler) Resolve(c *gin.Context) {
	resp, err := h.svc.ResolveByToken(c.Request.Context(), middleware.WorkspaceID(c), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Assign POST /v1/qrcodes/:id/assign
func (h *QrCodesHandler) Assign(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignQrCodeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Assign(c.Request.Context(), middleware.WorkspaceID(c), id, req.BoxID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Release POST /v1/qrcodes/:id/release
func (h *QrCodesHandler) Release(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Release(c.Request.Context(), middleware.WorkspaceID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreatePrintJob POST /v1/qrcodes/print-jobs
func (h *QrCodesHandler) CreatePrintJob(c *gin.Context) {
	var req dto.CreatePrintJobRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.printSvc.Create(c.Request.Context(), middleware.WorkspaceID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// GetPrintJob GET /v1/qrcodes/print-jobs/:id
func (h *QrCodesHandler) GetPrintJob(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.printSvc.Get(c.Request.Context(), middleware.WorkspaceID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
