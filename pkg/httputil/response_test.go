package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		data := map[string]string{"foo": "bar"}

		WriteJSON(rec, http.StatusOK, data)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteNoStore(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteNoStore(rec, http.StatusOK, map[string]string{"id_token": "e30="})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.JSONEq(t, `{"id_token":"e30="}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	t.Run("writes oauth error shape", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteError(rec, http.StatusBadRequest, "invalid_request", "body is not valid JSON")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"invalid_request","error_description":"body is not valid JSON"}`, rec.Body.String())
	})

	t.Run("omits empty description", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteError(rec, http.StatusInternalServerError, "server_error", "")

		assert.JSONEq(t, `{"error":"server_error"}`, rec.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteOK(rec, map[string]bool{"active": false})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active":false}`, rec.Body.String())
}
