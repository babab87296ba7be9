package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stemsi/survey-analytics/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func lookupRouter(svc service.LookupService) *gin.Engine {
	h := NewLookupHandler(svc)
	r := gin.New()
	r.GET("/departments", h.List)
	r.POST("/departments", h.Create)
	r.GET("/departments/:id", h.Get)
	r.PUT("/departments/:id", h.Update)
	r.DELETE("/departments/:id", h.Delete)
	return r
}

func TestLookupListPaginates(t *testing.T) {
	svc := &mockLookupService{}
	svc.On("List", mock.Anything, service.Page{Number: 2, Size: 100}).
		Return([]model.Lookup{{ID: 101, Name: "BCA"}}, 150, nil)

	w, env := do(t, lookupRouter(svc), http.MethodGet, "/departments?page=2&page_size=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 100, env.Pagination.PerPage)
	assert.Equal(t, 2, env.Pagination.TotalPages)

	var items []model.Lookup
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Equal(t, "BCA", items[0].Name)
}

func TestLookupListEmptyIsArray(t *testing.T) {
	svc := &mockLookupService{}
	svc.On("List", mock.Anything, service.Page{Number: 1, Size: service.DefaultPageSize}).Return(nil, 0, nil)

	w, env := do(t, lookupRouter(svc), http.MethodGet, "/departments?page=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestLookupCreate(t *testing.T) {
	svc := &mockLookupService{}
	svc.On("Create", mock.Anything, "Computer Science").Return(&model.Lookup{ID: 3, Name: "Computer Science"}, nil)

	w, _ := do(t, lookupRouter(svc), http.MethodPost, "/departments", `{"name":"Computer Science"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLookupCreateRejectsShortName(t *testing.T) {
	w, env := do(t, lookupRouter(&mockLookupService{}), http.MethodPost, "/departments", `{"name":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "name")
}

func TestLookupCreateDuplicate(t *testing.T) {
	svc := &mockLookupService{}
	svc.On("Create", mock.Anything, "BCA").Return(nil, service.ErrDuplicateName)

	w, env := do(t, lookupRouter(svc), http.MethodPost, "/departments", `{"name":"BCA"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrConflict, env.Error.Code)
}

func TestLookupDelete(t *testing.T) {
	svc := &mockLookupService{}
	svc.On("Delete", mock.Anything, 1).Return(service.ErrDependencyExists)
	svc.On("Delete", mock.Anything, 2).Return(nil)
	svc.On("Delete", mock.Anything, 3).Return(service.ErrNotFound)
	r := lookupRouter(svc)

	w, env := do(t, r, http.MethodDelete, "/departments/1", "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrDependencyExists, env.Error.Code)

	w, _ = do(t, r, http.MethodDelete, "/departments/2", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = do(t, r, http.MethodDelete, "/departments/3", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, env.Error.Code)
}

func TestLookupInvalidID(t *testing.T) {
	r := lookupRouter(&mockLookupService{})
	for _, path := range []string{"/departments/abc", "/departments/0", "/departments/-4"} {
		w, env := do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, response.ErrInvalidID, env.Error.Code)
	}
}
