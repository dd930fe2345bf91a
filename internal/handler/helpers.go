package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc/internal/pkg/errcode"
	"github.com/askdoc/askdoc/internal/pkg/errs"
	"github.com/askdoc/askdoc/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, errs.ErrUnsupportedFile):
		response.Error(c, http.StatusBadRequest, errcode.ErrUnsupportedFile, "unsupported file type, expected .pdf or .txt")
	case errors.Is(err, errs.ErrInvalidEncoding):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalidEncoding, "file is not valid utf-8 text")
	case errors.Is(err, errs.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, errs.ErrIndexNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, errcode.ErrIndexNotConfigured, "vector index not configured")
	case errors.Is(err, errs.ErrTransient):
		response.Error(c, http.StatusServiceUnavailable, errcode.ErrTransient, "upstream service timed out, retry later")
	case errors.Is(err, errs.ErrUpstream):
		response.Error(c, http.StatusBadGateway, errcode.ErrUpstream, "upstream service failure")
	default:
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}
