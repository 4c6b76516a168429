package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"multirag/internal/queue"
	"multirag/internal/server/middleware"
	"multirag/pkg/loader"
	"multirag/pkg/logger"
)

// IngestHandler accepts a multipart file upload, stages it in the upload
// directory and enqueues an ingestion job for the worker.
func IngestHandler(c echo.Context) error {
	type ingestResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: "Missing file upload",
		})
	}

	if _, ok := loader.TypeForExtension(filepath.Ext(fileHeader.Filename)); !ok {
		return c.JSON(http.StatusUnsupportedMediaType, ingestResponse{
			Message: "Unsupported file type",
		})
	}

	app := c.(*middleware.AppContext).App

	jobID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate job ID", "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	if err := os.MkdirAll(app.Config.UploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: "Invalid file upload",
		})
	}
	defer src.Close()

	stagedPath := filepath.Join(app.Config.UploadDir, jobID+"_"+filepath.Base(fileHeader.Filename))
	dst, err := os.Create(stagedPath)
	if err != nil {
		logger.Error("Failed to stage upload", "path", stagedPath, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		logger.Error("Failed to write upload", "path", stagedPath, "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.IngestJobMsg{
		JobID: jobID,
		Path:  stagedPath,
	})
	if err != nil {
		logger.Error("Failed to marshal ingest job", "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, msg); err != nil {
		logger.Error("Failed to publish ingest job", "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("Queued ingest job", "job_id", jobID, "file", fileHeader.Filename)

	return c.JSON(http.StatusAccepted, ingestResponse{
		Message: "File queued for ingestion",
		JobID:   jobID,
	})
}
