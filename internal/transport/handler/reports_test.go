package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportsRequest(fileName string) *http.Request {
	request := httptest.NewRequest("GET", "/api/reports/placeholder", nil)
	return mux.SetURLVars(request, map[string]string{"fileName": fileName})
}

func TestReportsServesExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report-abc.pdf"), []byte("%PDF-1.4 test"), 0o644))

	handler := NewReports(dir)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, reportsRequest("report-abc.pdf"))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "report-abc.pdf")
	assert.Equal(t, "%PDF-1.4 test", recorder.Body.String())
}

func TestReportsMissingFileIsNotFound(t *testing.T) {
	handler := NewReports(t.TempDir())
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, reportsRequest("report-missing.pdf"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestReportsRejectsTraversal(t *testing.T) {
	dir := t.TempDir()

	// A file outside the report directory that a traversal would reach.
	outside := filepath.Join(filepath.Dir(dir), "secret.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	handler := NewReports(dir)
	for _, name := range []string{
		"../secret.pdf",
		"..%2Fsecret.pdf",
		"/etc/passwd",
		"..",
		"",
	} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, reportsRequest(name))

		assert.Equal(t, http.StatusNotFound, recorder.Code, "name %q", name)
		assert.NotContains(t, recorder.Body.String(), "secret", "name %q", name)
	}
}

func TestReportsRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	handler := NewReports(dir)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, reportsRequest("nested"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
