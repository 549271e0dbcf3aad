package handler

import (
	"errors"
	"net/http"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/apierror"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// pathUUID parses the :param path segment as a UUID, writing a 400 response
// on failure.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are attached to the context for the ErrorHandler middleware, which
// logs them and writes an opaque 500.
func respondError(c *gin.Context, err error) {
	var depthErr *service.DepthExceededError
	var valErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("not found"))
	case errors.Is(err, service.ErrQrCodeAlreadyAssigned):
		c.JSON(http.StatusConflict, apierror.New("QR code is already assigned to another box"))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New("conflicting value, try again"))
	case errors.As(err, &depthErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(depthErr.Error()))
	case errors.Is(err, service.ErrEmptySegment), errors.Is(err, service.ErrNoFields):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, apierror.NewValidation(map[string]string{valErr.Field: valErr.Reason}))
	default:
		_ = c.Error(err)
	}
}
