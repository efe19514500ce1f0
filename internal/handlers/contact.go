package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/dto"
	apierrors "github.com/joinboard/join-api/internal/errors"
	"github.com/joinboard/join-api/internal/middleware"
	"github.com/joinboard/join-api/internal/services"
	"github.com/joinboard/join-api/internal/session"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// ListContacts returns the acting user's contacts grouped by initial,
// with the mirrored own profile up front.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	contacts, err := h.contactService.ListForUser(c.Request.Context(), snap)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	// The mirrored profile only exists for stored accounts.
	self, err := h.contactService.Get(c.Request.Context(), snap, 0)
	if err != nil && !errors.Is(err, services.ErrContactNotFound) {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactListDTO(self, contacts))
}

// CreateContact creates a contact and attaches it to the acting user.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateContactRequest struct {
		Name  string `json:"name" binding:"required,min=2,max=100"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone"`
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), snap, session.ContextPersister{C: c}, services.CreateContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContactDTO(contact))
}

// GetContact returns one contact. Id 0 resolves to the acting user's own
// stored profile.
func (h *ContactHandler) GetContact(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), snap, id)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(contact))
}

// UpdateContact edits a contact, or the account profile when the target
// is the mirrored own entry.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateContactRequest struct {
		Name  string `json:"name" binding:"required,min=2,max=100"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone"`
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), snap, session.ContextPersister{C: c}, id, services.UpdateContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(contact))
}

// DeleteContact removes a contact everywhere its id is referenced.
// Default contacts are only detached from the acting user.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), snap, session.ContextPersister{C: c}, id); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact deleted successfully",
	})
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContactNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCannotDeleteProfile):
		apierrors.BadRequest(c, err.Error())
	default:
		respondStoreError(c, err)
	}
}
