package http

import (
	"errors"
	"net/http"
	"strings"

	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/services/recipe/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type createPostForm struct {
	Title       string   `form:"title"`
	Description string   `form:"description"`
	Difficulty  string   `form:"difficulty"`
	Ingredients []string `form:"ingredients"`
}

// splitIngredients accepts repeated fields as well as comma separated lists.
func splitIngredients(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// CreatePost godoc
// @Summary      Create a recipe draft
// @Description  Create an unpublished recipe. Accepts multipart/form-data with an optional image, or a JSON body without one.
// @Tags         posts
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Recipe title"
// @Param        description formData string false "Preparation steps"
// @Param        difficulty formData string true "Difficulty" Enums(E, M, H)
// @Param        ingredients formData []string false "Ingredient names, repeated or comma separated"
// @Param        image formData file false "Recipe photo"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var input usecase.PostInput
	var image *usecase.ImageUpload

	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		var form createPostForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input = usecase.PostInput{
			Title:       form.Title,
			Description: form.Description,
			Difficulty:  form.Difficulty,
			Ingredients: splitIngredients(form.Ingredients),
		}

		file, err := c.FormFile("image")
		switch {
		case err == nil:
			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
				return
			}
			defer src.Close()
			image = &usecase.ImageUpload{
				Filename:    file.Filename,
				ContentType: file.Header.Get("Content-Type"),
				Body:        src,
			}
		case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form"})
			return
		}
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), userID, input, image)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get recipe by ID
// @Description  Recipe with like count, rating average and approved comments. Drafts are only found by their author.
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.PostDetail
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	detail, err := h.postUseCase.GetPost(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdatePost godoc
// @Summary      Update recipe
// @Description  Replace title, description, difficulty and ingredients. Only the author can update a post.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body usecase.PostInput true "Recipe fields"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	var input usecase.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.UpdatePost(c.Request.Context(), postID, userID, input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete recipe
// @Description  Delete a post with its comments, likes and ratings. Only the author can delete a post.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	if err := h.postUseCase.DeletePost(c.Request.Context(), postID, userID); err != nil {
		respondError(c, h.logger, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// PublishPost godoc
// @Summary      Publish recipe
// @Description  Make the post public now. The caller becomes its author.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/publish [post]
func (h *PostHandler) PublishPost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	post, err := h.postUseCase.PublishPost(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to publish post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary      List published recipes
// @Description  Published posts, oldest first
// @Tags         posts
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postUseCase.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// ListDrafts godoc
// @Summary      List my drafts
// @Description  Unpublished posts of the caller, oldest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /posts/drafts [get]
func (h *PostHandler) ListDrafts(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	posts, err := h.postUseCase.ListDrafts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch drafts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// SearchPosts godoc
// @Summary      Search recipes
// @Description  Every word of the query is matched against titles, descriptions and ingredient names
// @Tags         posts
// @Produce      json
// @Param        query query string false "Search words"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/search [get]
func (h *PostHandler) SearchPosts(c *gin.Context) {
	query := c.Query("query")

	posts, err := h.postUseCase.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err, "Failed to search posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "posts": posts, "count": len(posts)})
}

// TopIngredients godoc
// @Summary      Most used ingredients
// @Description  The five ingredients used by the most posts
// @Tags         ingredients
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /ingredients/top [get]
func (h *PostHandler) TopIngredients(c *gin.Context) {
	usages, err := h.postUseCase.TopIngredients(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch top ingredients")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": usages})
}

// PostsByIngredient godoc
// @Summary      Recipes by ingredient
// @Description  Published posts using an ingredient whose name contains the given text
// @Tags         ingredients
// @Produce      json
// @Param        name path string true "Ingredient name or part of it"
// @Success      200  {object}  map[string]interface{}
// @Router       /ingredients/{name}/posts [get]
func (h *PostHandler) PostsByIngredient(c *gin.Context) {
	name := c.Param("name")

	posts, err := h.postUseCase.SearchByIngredient(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient": name, "posts": posts, "count": len(posts)})
}
