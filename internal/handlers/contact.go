package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
)

// ✉️ POST /api/contact
func (h *Handler) CreateContact(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		ve := &apperrors.ValidationError{}
		ve.Add("body", "Request body must be a JSON object")
		h.fail(c, ve, "Error sending message")
		return
	}

	msg, err := h.Contacts.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Error sending message")
		return
	}
	if h.Metrics != nil {
		h.Metrics.Contacts.Inc()
	}

	log.Info().Str("contact_id", msg.ID).Str("email", msg.Email).Msg("✉️ Contact message stored")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent successfully!",
		"data":    msg,
	})
}
