package backendclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hris-admin/internal/backendclient"
	"hris-admin/internal/dashboard"
	dashboarderrors "hris-admin/internal/dashboard/errors"
	"hris-admin/internal/shared/apperror"
	"hris-admin/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *backendclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backendclient.New(srv.URL, 2*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func authed() context.Context {
	return contextutil.WithAccessToken(context.Background(), "token-1")
}

func TestClient_FetchAll(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"ok":true,"data":[
			{"id":"1","name":"Ann","email":"ann@example.com","employeeCode":"EMP-1","designation":"Engineer","isActive":true,"isLocked":false,
			 "projects":[{"id":"p1","name":"Apollo","status":"active"},{"id":"p2","name":"Gemini","status":"dropped"}]},
			{"id":"2","name":"Bo","email":"bo@example.com","isActive":false,"isLocked":true}
		]}`)
	})

	records, err := client.FetchAll(authed())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ann", records[0].Name)
	assert.Equal(t, "EMP-1", records[0].EmployeeCode)
	assert.True(t, records[0].Active)
	assert.Len(t, records[0].Projects, 2)
	assert.Len(t, records[0].VisibleProjects(), 1)
	assert.True(t, records[1].Locked)
}

func TestClient_ToggleLockReturnsReportedState(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/toggle-lock", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, `{"ok":true,"data":{"id":"2","isLocked":false}}`)
	})

	locked, err := client.ToggleLock(authed(), "2")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestClient_Delete(t *testing.T) {
	var paths []string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path+"?id="+r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, `{"ok":true,"data":{}}`)
	})

	require.NoError(t, client.SoftDelete(authed(), "1"))
	require.NoError(t, client.HardDelete(authed(), "2"))
	assert.Equal(t, []string{"/soft-delete?id=1", "/hard-delete?id=2"}, paths)
}

func TestClient_UpdateSendsMultipart(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/update/1", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Ann Lee", r.FormValue("name"))
		assert.Equal(t, "EMP-001", r.FormValue("employeeCode"))
		assert.Equal(t, "Engineer", r.FormValue("designation"))
		_, hasPassword := r.MultipartForm.Value["password"]
		assert.False(t, hasPassword)

		f, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		assert.Equal(t, "me.png", header.Filename)
		content, _ := io.ReadAll(f)
		assert.Equal(t, []byte("fake-png"), content)

		writeJSON(w, http.StatusOK, `{"ok":true,"data":{"id":"1","name":"Ann Lee","email":"ann@example.com","employeeCode":"EMP-001","designation":"Engineer","isActive":true}}`)
	})

	rec, err := client.Update(authed(), "1", dashboard.UpdateFields{
		Name:         "Ann Lee",
		Email:        "ann@example.com",
		EmployeeCode: "EMP-001",
		Designation:  "Engineer",
	}, &dashboard.Photo{Filename: "me.png", ContentType: "image/png", Content: []byte("fake-png")})

	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", rec.Name)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Run("non-2xx is a rejection with backend message", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"ok":false,"error":{"code":"NOT_FOUND","message":"User not found"}}`)
		})

		_, err := client.ToggleLock(authed(), "9")
		assert.True(t, errors.Is(err, dashboarderrors.ErrBackendRejection))
		assert.False(t, errors.Is(err, dashboarderrors.ErrNetworkFailure))

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "User not found", httpErr.Message)
	})

	t.Run("ok=false is a rejection", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"ok":false,"error":{"code":"CONFLICT","message":"Locked by policy"}}`)
		})

		err := client.SoftDelete(authed(), "1")
		assert.True(t, errors.Is(err, dashboarderrors.ErrBackendRejection))
	})

	t.Run("5xx is a rejection mapped to bad gateway", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"ok":false,"error":{"code":"INTERNAL_ERROR","message":"boom"}}`)
		})

		_, err := client.FetchAll(authed())
		assert.True(t, errors.Is(err, dashboarderrors.ErrBackendRejection))
		assert.Equal(t, http.StatusBadGateway, apperror.ToHTTP(err).Status)
	})

	t.Run("unreachable backend is a network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client := backendclient.New(url, time.Second)
		_, err := client.FetchAll(authed())
		assert.True(t, errors.Is(err, dashboarderrors.ErrNetworkFailure))
		assert.False(t, errors.Is(err, dashboarderrors.ErrBackendRejection))

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, apperror.CodeNetworkFailure, httpErr.Code)
		assert.Nil(t, httpErr.Details)
		assert.NotContains(t, httpErr.Message, url)
	})
}
