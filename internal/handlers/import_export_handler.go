package handlers

import (
	"fmt"
	"io"
	"net/http"

	"lead-backend/internal/middleware"
	"lead-backend/internal/repositories"
	"lead-backend/internal/services"
	"lead-backend/internal/timeutil"
	"lead-backend/pkg/utils"
)

const maxImportBodyBytes = 1 << 20 // 1 MiB is plenty for 200 rows

// ImportExportHandler covers the CSV round trip for leads.
type ImportExportHandler struct {
	Importer *services.ImportService
	Exporter *services.ExportService
}

func NewImportExportHandler(imp *services.ImportService, exp *services.ExportService) *ImportExportHandler {
	return &ImportExportHandler{Importer: imp, Exporter: exp}
}

// Import handles POST /api/buyers/import. The CSV arrives as a multipart
// "file" field or as the raw request body.
func (h *ImportExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	body, err := importBody(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	result, rowErrors, err := h.Importer.Import(r.Context(), body, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(rowErrors) > 0 {
		utils.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": rowErrors,
		})
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func importBody(r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportBodyBytes)

	if err := r.ParseMultipartForm(maxImportBodyBytes); err == nil {
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			return nil, fmt.Errorf("missing file field")
		}
		return file, nil
	}
	return r.Body, nil
}

// Export handles GET /api/buyers/export, honoring the same filters as the
// list endpoint.
func (h *ImportExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ListFilter{
		Search:       q.Get("search"),
		City:         q.Get("city"),
		PropertyType: q.Get("property_type"),
		Status:       q.Get("status"),
		Timeline:     q.Get("timeline"),
		SortAsc:      q.Get("sort") == "asc",
	}

	data, err := h.Exporter.ExportCSV(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", timeutil.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
