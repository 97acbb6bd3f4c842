package httpx

import (
	"errors"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/domain/model"
	"github.com/linkscout/linkscout-api/internal/domain/upload"
)

// FileHandlers parses uploaded batch files into name/school pairs.
// Parsing is separate from job creation so the client can show a preview
// before submitting.
type FileHandlers struct {
	MaxUploadBytes int64
}

// ParseFile handles POST /api/jobs/parse-file (multipart, field "file").
func (h *FileHandlers) ParseFile(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = upload.MaxFileBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_upload",
			Err:     errors.New("file size exceeds limit or form is malformed"),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_file",
			Err:     errors.New("a file upload is required"),
		})
		return
	}
	defer file.Close()

	names, err := upload.ParseBatchFile(header.Filename, file)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "parse_failed",
			Err:     err,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"names":       names,
		"count":       len(names),
		"inputMethod": model.InputMethodFileUpload,
	})
}
