package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unipay/unipay-api/service/events"
	"github.com/unipay/unipay-api/service/models"
)

const maxKycUploadBytes = 5 << 20

// UploadKycHandler accepts a single image under the kycFile form field, stores
// it on disk and records the upload.
func (as *ApiServer) UploadKycHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "UploadKycHandler")

	r.Body = http.MaxBytesReader(w, r.Body, maxKycUploadBytes)
	if err := r.ParseMultipartForm(maxKycUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "File too large or invalid form data. Max size is 5MB.",
		})
		return
	}

	file, header, err := r.FormFile("kycFile")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "No file uploaded. Use the kycFile field.",
		})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Only image files are allowed.",
		})
		return
	}

	if err = os.MkdirAll(as.UploadDir, 0o755); err != nil {
		logger.WithError(err).Error("could not create upload directory")
		writeError(w, err)
		return
	}

	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(header.Filename))
	destPath := filepath.Join(as.UploadDir, fileName)

	dest, err := os.Create(destPath)
	if err != nil {
		logger.WithError(err).Error("could not create upload file")
		writeError(w, err)
		return
	}
	defer dest.Close()

	size, err := io.Copy(dest, file)
	if err != nil {
		logger.WithError(err).Error("could not write upload file")
		writeError(w, err)
		return
	}

	document := &models.KycDocument{
		FileName: fileName,
		FileURL:  "/uploads/" + fileName,
		MimeType: mimeType,
		Size:     size,
	}
	document.GenID(ctx)

	event := events.KycDocumentSave{}
	if err = as.Service.Emit(ctx, event.Name(), document); err != nil {
		logger.WithError(err).Error("could not emit kyc document event")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"fileURL": document.FileURL,
	})
}
