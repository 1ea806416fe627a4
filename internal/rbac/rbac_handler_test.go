package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// =========================================
// Fake Service
// =========================================

type fakeService struct{}

func (m *fakeService) LoadPolicy() error {
	return nil
}

func (m *fakeService) Enforce(req EnforceRequest) (bool, error) {
	if req.Role == RoleHR && req.Resource == ResourceEmployee && req.Action == ActionRead {
		return true, nil
	}
	return false, nil
}

func newEnforceRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&fakeService{})

	router := gin.New()
	router.POST("/rbac/enforce", func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}, handler.Enforce)
	return router
}

type enforceEnvelope struct {
	Ok   bool            `json:"ok"`
	Data EnforceResponse `json:"data"`
}

func TestHandler_Enforce(t *testing.T) {
	router := newEnforceRouter(RoleHR)

	jsonBody, _ := json.Marshal(map[string]string{"resource": "employee", "action": "read"})
	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp enforceEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.True(t, resp.Data.Allowed)
}

func TestHandler_Enforce_MissingRole(t *testing.T) {
	router := newEnforceRouter("")

	jsonBody, _ := json.Marshal(map[string]string{"resource": "employee", "action": "read"})
	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Enforce_InvalidBody(t *testing.T) {
	router := newEnforceRouter(RoleHR)

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":""}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
