package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modu-events/lotto-backend/internal/models"
	"github.com/modu-events/lotto-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseEventTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// CreateEventRequest is the body for POST /events
type CreateEventRequest struct {
	Title       string              `json:"title" binding:"required"`
	EventType   models.EventType    `json:"eventType" binding:"required"`
	StartAt     string              `json:"startAt"`
	EndAt       string              `json:"endAt"`
	LottoConfig *models.LottoConfig `json:"lottoConfig"`
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var request CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := &models.Event{
		Title:       request.Title,
		EventType:   request.EventType,
		LottoConfig: request.LottoConfig,
	}
	if request.StartAt != "" {
		startAt, err := parseEventTime(request.StartAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startAt format (RFC 3339)"})
			return
		}
		event.StartAt = startAt
	}
	if request.EndAt != "" {
		endAt, err := parseEventTime(request.EndAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endAt format (RFC 3339)"})
			return
		}
		event.EndAt = endAt
	}

	if err := h.eventService.CreateEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvent handles GET /events/:id. Rate tables of a lotto event with
// showDetails disabled are hidden from non-admin callers.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event: " + err.Error()})
		}
		return
	}

	if event.IsLotto() && !event.LottoConfig.ShowDetails && c.GetString("role") != "admin" {
		redacted := *event
		cfg := *event.LottoConfig
		cfg.TicketRates = nil
		cfg.WinRates = nil
		redacted.LottoConfig = &cfg
		c.JSON(http.StatusOK, &redacted)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.eventService.ListEvents(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// DeleteEvent handles DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// AnnounceWinnersRequest is the body for POST /events/:id/winners
type AnnounceWinnersRequest struct {
	Winners []models.ManualWinner `json:"winners" binding:"required"`
}

// AnnounceWinners handles POST /events/:id/winners
func (h *EventHandler) AnnounceWinners(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request AnnounceWinnersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.eventService.AnnounceWinners(c.Request.Context(), id, request.Winners); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to announce winners: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Winners announced",
		"manualWinners": request.Winners,
	})
}

// EventApplications handles GET /events/:id/applications
func (h *EventHandler) EventApplications(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	apps, err := h.eventService.EventApplications(c.Request.Context(), id, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, apps)
}
