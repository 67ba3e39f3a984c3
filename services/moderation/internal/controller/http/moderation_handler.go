package http

import (
	"net/http"
	"strconv"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationUseCase usecase.ModerationUseCase
	logger            *logger.Logger
}

func NewModerationHandler(moderationUseCase usecase.ModerationUseCase, logger *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderationUseCase: moderationUseCase,
		logger:            logger,
	}
}

func (h *ModerationHandler) respondError(c *gin.Context, err error, fallback string) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("%s: %v", fallback, err)
	}
	c.JSON(status, gin.H{"error": apperror.Message(err, fallback)})
}

// GetPendingComments godoc
// @Summary      Comments awaiting review
// @Description  Unapproved comments, oldest first
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /moderation/comments/pending [get]
func (h *ModerationHandler) GetPendingComments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultPendingLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	comments, err := h.moderationUseCase.PendingComments(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err, "Failed to get pending comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}

// ApproveComment godoc
// @Summary      Approve a comment
// @Description  Makes the comment visible on its post
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  entity.Comment
// @Failure      404  {object}  map[string]string
// @Router       /moderation/comments/{id}/approve [post]
func (h *ModerationHandler) ApproveComment(c *gin.Context) {
	commentID := c.Param("id")
	moderatorID := c.GetString(middleware.ContextUserID)

	comment, err := h.moderationUseCase.ApproveComment(c.Request.Context(), commentID, moderatorID)
	if err != nil {
		h.respondError(c, err, "Failed to approve comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// RemoveComment godoc
// @Summary      Remove a comment
// @Description  Deletes the comment permanently and returns the id of its post
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /moderation/comments/{id} [delete]
func (h *ModerationHandler) RemoveComment(c *gin.Context) {
	commentID := c.Param("id")
	moderatorID := c.GetString(middleware.ContextUserID)

	postID, err := h.moderationUseCase.RemoveComment(c.Request.Context(), commentID, moderatorID)
	if err != nil {
		h.respondError(c, err, "Failed to remove comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment removed",
		"post_id": postID,
	})
}

// GetStats godoc
// @Summary      Moderation backlog
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Stats
// @Router       /moderation/stats [get]
func (h *ModerationHandler) GetStats(c *gin.Context) {
	stats, err := h.moderationUseCase.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to get moderation stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
