package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/askdoc/askdoc/internal/pkg/errcode"
	"github.com/askdoc/askdoc/internal/pkg/response"
	"github.com/askdoc/askdoc/internal/service"
)

type AskHandler struct {
	answers *service.AnswerService
}

func NewAskHandler(answers *service.AnswerService) *AskHandler {
	return &AskHandler{answers: answers}
}

func (h *AskHandler) Ask(c *gin.Context) {
	query := strings.TrimSpace(c.PostForm("query"))
	if query == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "query is required")
		return
	}
	answer, err := h.answers.Answer(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, gin.H{"answer": answer})
}
