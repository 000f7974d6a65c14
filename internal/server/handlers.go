package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jimezsa/internhunt/internal/models"
	"github.com/jimezsa/internhunt/internal/notify"
	"github.com/jimezsa/internhunt/internal/store"
)

const (
	defaultTestSkills   = "python,javascript"
	defaultTestLocation = "Mumbai, India"
)

type submitResponse struct {
	Message        string              `json:"message"`
	JobsFound      int                 `json:"jobsFound"`
	Jobs           []models.JobPosting `json:"jobs"`
	DatabaseStored bool                `json:"databaseStored"`
	UsedFallback   bool                `json:"usedFallback"`
	SMSSent        *bool               `json:"smsSent,omitempty"`
}

type testScrapeRequest struct {
	Skills   string `json:"skills"`
	Location string `json:"location"`
}

func (s *Server) handleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Server is running!", "status": "success"})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()

	storeState, _ := store.Status(ctx, s.deps.Store)

	notifierState := "not configured"
	if s.deps.Notifier.Configured() {
		notifierState = "connected"
	}

	mirrorState := "not configured"
	if s.deps.Mirror.Configured() {
		mirrorState = "connected"
	}

	renderState := "not available"
	if s.deps.Render != nil && s.deps.Render.Available(ctx) {
		renderState = "available"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"store":    storeState,
		"notifier": notifierState,
		"mirror":   mirrorState,
		"render":   renderState,
	})
}

func (s *Server) handleSubmitProfile(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if err := sub.Validate(); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + verr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger := s.deps.Logger.With().Str("request_id", c.GetString(requestIDKey)).Logger()
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.deps.RequestTimeout)
	defer cancel()

	stored := store.Save(ctx, s.deps.Store, sub.Record(), logger)
	result := s.deps.Finder.FindJobs(ctx, sub.Params())

	resp := submitResponse{
		Message:        "Profile submitted successfully!",
		JobsFound:      result.TotalFound,
		Jobs:           result.Jobs,
		DatabaseStored: stored,
		UsedFallback:   result.UsedFallback,
	}

	if notify.ShouldNotify(sub.SMSNotifications, sub.Phone, len(result.Jobs)) {
		body := notify.Compose(sub.Name, result.TotalFound, result.Jobs, notify.SMSMaxLength)
		sent := notify.Deliver(ctx, s.deps.Notifier, sub.Phone, body, logger)
		resp.SMSSent = &sent
		notify.Deliver(ctx, s.deps.Mirror, sub.Phone, body, logger)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTestScrape(c *gin.Context) {
	var req testScrapeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}
	params := models.SearchParams{
		Skills:   firstNonEmpty(req.Skills, defaultTestSkills),
		Location: firstNonEmpty(req.Location, defaultTestLocation),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.deps.RequestTimeout)
	defer cancel()
	result := s.deps.Finder.FindJobs(ctx, params)

	c.JSON(http.StatusOK, gin.H{
		"jobs":            result.Jobs,
		"count":           len(result.Jobs),
		"totalFound":      result.TotalFound,
		"usedFallback":    result.UsedFallback,
		"renderAvailable": s.deps.Render != nil && s.deps.Render.Available(ctx),
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
