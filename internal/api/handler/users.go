package handler

import (
	"errors"
	"net/http"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/service"
	"github.com/gin-gonic/gin"
)

// UsersHandler handles user creation and engagement submission.
type UsersHandler struct {
	userService  *service.UserService
	learnService *service.LearnService
}

// NewUsersHandler creates a new users handler.
// Parameters:
//   - userService: user creation service.
//   - learnService: engagement learning service.
// Returns:
//   - *UsersHandler: initialized handler.
func NewUsersHandler(userService *service.UserService, learnService *service.LearnService) *UsersHandler {
	return &UsersHandler{
		userService:  userService,
		learnService: learnService,
	}
}

// CreateUser handles GET /1.0/users. A new user starts with a neutral
// interest vector.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *UsersHandler) CreateUser(c *gin.Context) {
	profile, err := h.userService.CreateUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create user",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"value": profile.ID,
	})
}

// engagementPayload mirrors the client analytics format. Pointer fields let
// validation distinguish a missing key from a zero value; percent, up, down
// and share are optional and default to empty.
type engagementPayload struct {
	ArticleID *string  `json:"article_id"`
	Action    *string  `json:"action"`
	TotalTime *float64 `json:"total_time"`
	TimeZero  *float64 `json:"time_zero"`
	Percent   *float64 `json:"percent"`
	Up        *int     `json:"up"`
	Down      *int     `json:"down"`
	Share     []string `json:"share"`
}

// engagementSubmission is the POST /1.0/users request body.
type engagementSubmission struct {
	UserID   *string             `json:"user_id"`
	Count    *int                `json:"count"`
	Articles []engagementPayload `json:"articles"`
}

// SubmitEngagement handles POST /1.0/users. The batch is validated and
// persisted synchronously; the DNA update runs detached, so a 200 response
// only acknowledges receipt, not learning.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *UsersHandler) SubmitEngagement(c *gin.Context) {
	var body engagementSubmission
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "posted data not in json format"})
		return
	}

	if body.Count == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "must provide a count"})
		return
	}
	if body.UserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "required parameter user_id missing"})
		return
	}
	if body.Articles == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "articles not found"})
		return
	}
	if len(body.Articles) != *body.Count {
		c.JSON(http.StatusBadRequest, gin.H{"error": "length of articles data does not match count"})
		return
	}

	events := make([]domain.EngagementEvent, 0, len(body.Articles))
	for _, art := range body.Articles {
		if art.ArticleID == nil || art.Action == nil || art.TotalTime == nil || art.TimeZero == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}

		action := domain.EngagementAction(*art.Action)
		if action != domain.ActionDone && action != domain.ActionSave {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
			return
		}

		share := make([]domain.ShareTarget, 0, len(art.Share))
		for _, target := range art.Share {
			st := domain.ShareTarget(target)
			if !domain.ValidShareTarget(st) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid share type"})
				return
			}
			share = append(share, st)
		}

		ev := domain.EngagementEvent{
			ArticleID: *art.ArticleID,
			Action:    action,
			TotalTime: *art.TotalTime,
			TimeZero:  *art.TimeZero,
			Share:     share,
		}
		if art.Percent != nil {
			ev.Percent = *art.Percent
		}
		if art.Up != nil {
			ev.Up = *art.Up
		}
		if art.Down != nil {
			ev.Down = *art.Down
		}
		events = append(events, ev)
	}

	if err := h.learnService.Learn(c.Request.Context(), *body.UserID, events); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record engagement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "success",
	})
}
