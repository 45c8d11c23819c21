package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pep299/webcrawl-agent/internal/transport/response"
)

// Reports handles GET /api/reports/{fileName}: serve a previously
// rendered report. Names that resolve outside the report directory are
// rejected as not found.
type Reports struct {
	dir string
}

func NewReports(dir string) *Reports {
	return &Reports{dir: dir}
}

func (h *Reports) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fileName := mux.Vars(r)["fileName"]
	if fileName == "" || fileName != filepath.Base(fileName) {
		response.WriteNotFound(w, "Report not found")
		return
	}

	dirAbs, err := filepath.Abs(h.dir)
	if err != nil {
		response.WriteInternalError(w, "Report directory unavailable")
		return
	}
	path := filepath.Join(dirAbs, fileName)
	if !strings.HasPrefix(path, dirAbs+string(filepath.Separator)) {
		response.WriteNotFound(w, "Report not found")
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		response.WriteNotFound(w, "Report not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	http.ServeFile(w, r, path)
}
