package http

import (
	"net/http"

	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/services/recipe/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
		logger:         logger,
	}
}

// AddComment godoc
// @Summary      Comment on a recipe
// @Description  The comment stays hidden until a moderator approves it
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body usecase.CommentInput true "Comment"
// @Success      201  {object}  entity.Comment
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	var input usecase.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentUseCase.AddComment(c.Request.Context(), postID, userID, input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment submitted for moderation",
		"comment": comment,
	})
}

// ListComments godoc
// @Summary      Approved comments of a recipe
// @Tags         comments
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	comments, err := h.commentUseCase.VisibleComments(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}
