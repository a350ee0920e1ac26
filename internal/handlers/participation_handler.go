package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modu-events/lotto-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipationHandler handles participation-related HTTP requests
type ParticipationHandler struct {
	participationService services.ParticipationService
}

// NewParticipationHandler creates a new ParticipationHandler
func NewParticipationHandler(participationService services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{
		participationService: participationService,
	}
}

// ApplyRequest is the body for POST /participation/apply
type ApplyRequest struct {
	EventID    string `json:"eventId" binding:"required"`
	EventTitle string `json:"eventTitle"`
}

// Apply handles POST /participation/apply
func (h *ParticipationHandler) Apply(c *gin.Context) {
	var request ApplyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventID, err := primitive.ObjectIDFromHex(request.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return
	}

	userID := c.GetString("userID")
	nickname := c.GetString("nickname")

	tickets, err := h.participationService.Apply(c.Request.Context(), eventID, userID, nickname, request.EventTitle)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyParticipated):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already participated in this event"})
		case errors.Is(err, services.ErrAlreadyParticipatedToday):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already participated today"})
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Participation recorded",
		"tickets": tickets,
	})
}

// MyApplications handles GET /participation/my-apps
func (h *ParticipationHandler) MyApplications(c *gin.Context) {
	userID := c.GetString("userID")

	apps, err := h.participationService.MyApplications(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, apps)
}

// DrawRequest is the body for POST /participation/lotto/draw
type DrawRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

// Draw handles POST /participation/lotto/draw
func (h *ParticipationHandler) Draw(c *gin.Context) {
	var request DrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventID, err := primitive.ObjectIDFromHex(request.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return
	}

	userID := c.GetString("userID")

	results, alreadyDrawn, err := h.participationService.Draw(c.Request.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoParticipation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No participation record for this event"})
		case errors.Is(err, services.ErrNotLottoEvent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This event has no lotto draw"})
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to draw: " + err.Error()})
		}
		return
	}

	message := "Draw completed"
	if alreadyDrawn {
		message = "Already checked"
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"message": message,
	})
}
