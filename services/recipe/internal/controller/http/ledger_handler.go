package http

import (
	"net/http"

	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/services/recipe/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerUseCase usecase.LedgerUseCase
	logger        *logger.Logger
}

func NewLedgerHandler(ledgerUseCase usecase.LedgerUseCase, logger *logger.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerUseCase: ledgerUseCase,
		logger:        logger,
	}
}

// LikePost godoc
// @Summary      Like a recipe
// @Description  Liking twice keeps a single like and reports created=false
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.LikeSummary
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *LedgerHandler) LikePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	summary, err := h.ledgerUseCase.Like(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to like post")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// UnlikePost godoc
// @Summary      Remove a like
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.LikeSummary
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [delete]
func (h *LedgerHandler) UnlikePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	summary, err := h.ledgerUseCase.Unlike(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to unlike post")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RatePost godoc
// @Summary      Rate a recipe
// @Description  Stores a 1 to 5 point rating. Rating again replaces the previous point.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body usecase.RateInput true "Rating"
// @Success      200  {object}  entity.RatingSummary
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/rate [post]
func (h *LedgerHandler) RatePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	var input usecase.RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.ledgerUseCase.Rate(c.Request.Context(), postID, userID, input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to rate post")
		return
	}

	c.JSON(http.StatusOK, summary)
}
