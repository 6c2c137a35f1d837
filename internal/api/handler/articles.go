package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/service"
	"github.com/gin-gonic/gin"
)

// ArticlesHandler handles article serving endpoints.
type ArticlesHandler struct {
	serveService *service.ServeService
}

// NewArticlesHandler creates a new articles handler.
// Parameters:
//   - serveService: serve service instance.
// Returns:
//   - *ArticlesHandler: initialized handler.
func NewArticlesHandler(serveService *service.ServeService) *ArticlesHandler {
	return &ArticlesHandler{
		serveService: serveService,
	}
}

// GetArticles handles GET /1.0/articles.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ArticlesHandler) GetArticles(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id must be a valid user id",
		})
		return
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "count must be a positive integer number",
		})
		return
	}

	articles, err := h.serveService.Serve(c.Request.Context(), userID, count)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "user_id not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "article serving error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(articles),
		"articles": articles,
	})
}
