package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stemsi/survey-analytics/internal/service"
	"github.com/stemsi/survey-analytics/internal/validator"
)

// LookupHandler serves /departments or /hobbies, depending on the service kind.
type LookupHandler struct {
	svc service.LookupService
}

func NewLookupHandler(svc service.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

// List godoc
// GET /api/departments?page=&page_size=
func (h *LookupHandler) List(c *gin.Context) {
	page := pageQuery(c)
	items, total, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		fail(c, err)
		return
	}
	if items == nil {
		items = []model.Lookup{}
	}
	response.SuccessWithPagination(c, http.StatusOK, items, response.NewPagination(page.Number, page.Size, total))
}

func (h *LookupHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *LookupHandler) Create(c *gin.Context) {
	var req model.LookupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// Update handles both PUT and PATCH; name is the only writable field.
func (h *LookupHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.LookupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.svc.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *LookupHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
