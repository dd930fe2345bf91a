package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askdoc/askdoc/internal/pkg/errcode"
	"github.com/askdoc/askdoc/internal/pkg/response"
	"github.com/askdoc/askdoc/internal/service"
)

type UploadHandler struct {
	ingest  *service.IngestService
	answers *service.AnswerService
}

func NewUploadHandler(ingest *service.IngestService, answers *service.AnswerService) *UploadHandler {
	return &UploadHandler{ingest: ingest, answers: answers}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "file is required")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "failed to open file")
		return
	}
	defer opened.Close()

	chunks, err := h.ingest.Ingest(c.Request.Context(), file.Filename, opened)
	if err != nil {
		handleError(c, err)
		return
	}
	// The index content changed; cached answers may now be stale.
	h.answers.Invalidate()
	response.JSON(c, gin.H{"status": "uploaded", "chunks": chunks})
}
