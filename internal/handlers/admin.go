package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/seed"
)

type AdminHandler struct {
	tasks    repository.TaskRepository
	contacts repository.ContactRepository
}

func NewAdminHandler(tasks repository.TaskRepository, contacts repository.ContactRepository) *AdminHandler {
	return &AdminHandler{
		tasks:    tasks,
		contacts: contacts,
	}
}

// Reset writes the tutorial tasks and default contacts back at their
// slots. Run at login-page load in the original flow; exposed here as an
// admin operation.
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := seed.Reset(c.Request.Context(), h.tasks, h.contacts); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Database reset to defaults",
	})
}
