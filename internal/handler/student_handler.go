package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stemsi/survey-analytics/internal/service"
	"github.com/stemsi/survey-analytics/internal/validator"
)

// StudentHandler serves the student CRUD endpoints.
type StudentHandler struct {
	svc service.StudentService
}

func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// List godoc
// GET /api/students?page=&page_size=
// Students ordered by id, each with nested department, hobby and metrics.
func (h *StudentHandler) List(c *gin.Context) {
	page := pageQuery(c)
	students, total, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		fail(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	response.SuccessWithPagination(c, http.StatusOK, students, response.NewPagination(page.Number, page.Size, total))
}

// Get godoc
// GET /api/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	st, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Create godoc
// POST /api/students
// Every student field and the full metrics object are required.
func (h *StudentHandler) Create(c *gin.Context) {
	w, ok := bindStudent(c)
	if !ok {
		return
	}
	st, err := h.svc.Create(c.Request.Context(), w)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, st)
}

// Replace godoc
// PUT /api/students/:id
func (h *StudentHandler) Replace(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	w, ok := bindStudent(c)
	if !ok {
		return
	}
	st, err := h.svc.Replace(c.Request.Context(), id, w)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Patch godoc
// PATCH /api/students/:id
// Any subset of fields, including a partial metrics object.
func (h *StudentHandler) Patch(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	w, ok := bindStudent(c)
	if !ok {
		return
	}
	st, err := h.svc.Patch(c.Request.Context(), id, w)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Delete godoc
// DELETE /api/students/:id
// The metrics row goes with the student.
func (h *StudentHandler) Delete(c *gin.Context) {
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

func bindStudent(c *gin.Context) (*model.StudentWrite, bool) {
	var w model.StudentWrite
	if fields := validator.Bind(c, &w); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return nil, false
	}
	return &w, true
}
