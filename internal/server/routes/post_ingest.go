package routes

import (
	"encoding/json"
	"net/http"

	"github.com/OFFIS-RIT/newsgraph/internal/queue"
	"github.com/OFFIS-RIT/newsgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateIngestJobHandler queues a news query for the worker.
func CreateIngestJobHandler(c echo.Context) error {
	type createIngestBody struct {
		Query    string `json:"query" validate:"required"`
		From     string `json:"from"`
		To       string `json:"to"`
		Language string `json:"language"`
		PageSize int    `json:"page_size" validate:"gte=0,lte=100"`
	}

	type createIngestResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, createIngestResponse{
			Message: "Ingest queue is not configured",
		})
	}

	data := new(createIngestBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{
			Message: "Invalid request body",
		})
	}

	job, err := queue.NewIngestJob(queue.IngestJob{
		Query:    data.Query,
		From:     data.From,
		To:       data.To,
		Language: data.Language,
		PageSize: data.PageSize,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{
			Message: err.Error(),
		})
	}

	msg, err := json.Marshal(job)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createIngestResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	if err := queue.PublishFIFO(ctx, app.Queue, queue.IngestQueue, msg); err != nil {
		logger.Error("[Server] Failed to publish ingest job", "job_id", job.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, createIngestResponse{
			Message: "Failed to queue ingest job",
		})
	}
	if app.Metrics != nil {
		app.Metrics.RecordJob(queue.IngestQueue, "published")
	}

	return c.JSON(http.StatusAccepted, createIngestResponse{
		Message: "Ingest job queued",
		JobID:   job.ID,
	})
}
