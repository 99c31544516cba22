package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusConflict, "nothing to save")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"nothing to save"}`, rec.Body.String())
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, map[string]int{"points": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"points":3}}`, rec.Body.String())
}

func TestRespondFile(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondFile(rec, "application/gpx+xml", "walk.gpx", []byte("<gpx/>"))

	assert.Equal(t, "application/gpx+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="walk.gpx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "<gpx/>", rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Query string `json:"query"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"query":"Chicago"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "Chicago", v.Query)

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(bad, &v))
}
