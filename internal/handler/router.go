package handler

import "github.com/gin-gonic/gin"

type RouterDeps struct {
	Upload *UploadHandler
	Ask    *AskHandler
}

// RegisterRoutes mounts the two legacy endpoints. Paths and response
// bodies are a frozen contract with existing frontends.
func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/upload", deps.Upload.Upload)
	api.POST("/ask", deps.Ask.Ask)
}
