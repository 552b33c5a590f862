package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type markdownRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

type PostHandler struct {
	markdown markdownRenderer
	logger   logger.Interface
}

func NewPostHandler(markdown markdownRenderer, logger logger.Interface) *PostHandler {
	return &PostHandler{markdown: markdown, logger: logger}
}

type PreviewPostRequest struct {
	Content string `json:"content" binding:"required,max=200000"`
}

type PreviewPostResponse struct {
	HTML string `json:"html"`
}

// Preview handles POST /api/admin/posts/preview.
func (h *PostHandler) Preview(c *gin.Context) {
	var req PreviewPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	html, err := h.markdown.ToHTMLSanitized(req.Content)
	if err != nil {
		h.logger.Errorw("failed to render post preview", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to render preview"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", PreviewPostResponse{HTML: html})
}
