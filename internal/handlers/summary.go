package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/dto"
	apierrors "github.com/joinboard/join-api/internal/errors"
	"github.com/joinboard/join-api/internal/middleware"
	"github.com/joinboard/join-api/internal/services"
	"github.com/joinboard/join-api/internal/session"
)

type SummaryHandler struct {
	taskService *services.TaskService
	now         func() time.Time
}

func NewSummaryHandler(taskService *services.TaskService) *SummaryHandler {
	return &SummaryHandler{
		taskService: taskService,
		now:         time.Now,
	}
}

// Summary returns the dashboard counters and the time-of-day greeting.
// The greeting ships with a one-shot flag: the first summary after login
// reports it unshown and flips it, so the client animates it only once
// per session.
func (h *SummaryHandler) Summary(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summary, err := h.taskService.Summarize(c.Request.Context(), snap)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	shown := session.GreetingShown(c)
	if !shown {
		if err := session.SetGreetingShown(c, true); err != nil {
			apierrors.InternalError(c, "Failed to save session")
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToSummaryDTO(summary, greetingMessage(h.now()), snap.Name, shown))
}

func greetingMessage(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
