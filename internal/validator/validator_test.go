package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindBody(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBindLookupName(t *testing.T) {
	var req model.LookupRequest
	assert.Nil(t, bindBody(t, `{"name": "Computer Science"}`, &req))

	fields := bindBody(t, `{"name": " x "}`, &req)
	require.NotNil(t, fields)
	assert.Equal(t, "name must be 2-100 characters", fields["name"])
}

func TestBindNestedFieldPath(t *testing.T) {
	var req model.StudentWrite
	fields := bindBody(t, `{"height_cm": 20, "metrics": {"college_mark": 120, "stress_level": "Calm"}}`, &req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "height_cm")
	assert.Contains(t, fields, "metrics.college_mark")
	assert.Contains(t, fields, "metrics.stress_level")
}

func TestBindSyntaxError(t *testing.T) {
	var req model.LookupRequest
	fields := bindBody(t, `{"name": `, &req)
	assert.Contains(t, fields, "detail")
}
