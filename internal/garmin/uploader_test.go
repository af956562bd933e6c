package garmin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "2025-12-11.fit")
	require.NoError(t, os.WriteFile(path, []byte("fit-bytes"), 0644))
	return path
}

func testSession(srv *httptest.Server) *Session {
	return &Session{http: srv.Client(), token: "ticket", uploadURL: srv.URL}
}

func TestUploadActivityAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ticket", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "2025-12-11.fit", header.Filename)
		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fit-bytes", string(body))

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	assert.NoError(t, testSession(srv).UploadActivity(fitFixture(t)))
}

func TestUploadActivityConflictIsDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := testSession(srv).UploadActivity(fitFixture(t))
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestUploadActivityDuplicateBodyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detailedImportResult": {"failures": [{"messages": ["Duplicate Activity"]}]}}`)
	}))
	defer srv.Close()

	err := testSession(srv).UploadActivity(fitFixture(t))
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestUploadActivityServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "upstream unavailable")
	}))
	defer srv.Close()

	err := testSession(srv).UploadActivity(fitFixture(t))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))
	assert.Contains(t, err.Error(), "500")
}

func TestUploadActivityMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for a missing file")
	}))
	defer srv.Close()

	err := testSession(srv).UploadActivity(filepath.Join(t.TempDir(), "missing.fit"))
	require.Error(t, err)
}

func TestTicketPattern(t *testing.T) {
	body := `<html>var response_url = "https://connect.garmin.com/?ticket=ST-012345-abcdef-cas";</html>`
	match := ticketPattern.FindStringSubmatch(body)
	require.NotNil(t, match)
	assert.Equal(t, "ST-012345-abcdef-cas", match[1])
}
