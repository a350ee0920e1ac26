package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modu-events/lotto-backend/internal/models"
	"github.com/modu-events/lotto-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubParticipationService lets handler tests script service responses
type stubParticipationService struct {
	applyTickets int
	applyErr     error
	apps         []*models.Application
	appsErr      error
	drawResults  []string
	alreadyDrawn bool
	drawErr      error
}

func (s *stubParticipationService) Apply(ctx context.Context, eventID primitive.ObjectID, userID, nickname, eventTitle string) (int, error) {
	return s.applyTickets, s.applyErr
}

func (s *stubParticipationService) MyApplications(ctx context.Context, userID string) ([]*models.Application, error) {
	return s.apps, s.appsErr
}

func (s *stubParticipationService) Draw(ctx context.Context, eventID primitive.ObjectID, userID string) ([]string, bool, error) {
	return s.drawResults, s.alreadyDrawn, s.drawErr
}

func setupRouter(svc services.ParticipationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Stand-in for the JWT middleware: inject a fixed identity.
	router.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("nickname", "tester")
	})
	h := NewParticipationHandler(svc)
	router.POST("/participation/apply", h.Apply)
	router.GET("/participation/my-apps", h.MyApplications)
	router.POST("/participation/lotto/draw", h.Draw)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestApplyHandlerReturnsGrantedTickets(t *testing.T) {
	router := setupRouter(&stubParticipationService{applyTickets: 3})

	w := postJSON(t, router, "/participation/apply", gin.H{
		"eventId":    primitive.NewObjectID().Hex(),
		"eventTitle": "spring lotto",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string `json:"message"`
		Tickets int    `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Tickets)
}

func TestApplyHandlerRejectsRepeatParticipation(t *testing.T) {
	router := setupRouter(&stubParticipationService{applyErr: services.ErrAlreadyParticipated})

	w := postJSON(t, router, "/participation/apply", gin.H{
		"eventId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	router = setupRouter(&stubParticipationService{applyErr: services.ErrAlreadyParticipatedToday})
	w = postJSON(t, router, "/participation/apply", gin.H{
		"eventId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyHandlerRejectsMalformedEventID(t *testing.T) {
	router := setupRouter(&stubParticipationService{})

	w := postJSON(t, router, "/participation/apply", gin.H{"eventId": "not-an-id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDrawHandlerFirstAndRepeatCalls(t *testing.T) {
	router := setupRouter(&stubParticipationService{
		drawResults: []string{"A", models.PrizeBlank},
	})

	w := postJSON(t, router, "/participation/lotto/draw", gin.H{
		"eventId": primitive.NewObjectID().Hex(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Results []string `json:"results"`
		Message string   `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", models.PrizeBlank}, resp.Results)
	assert.Equal(t, "Draw completed", resp.Message)

	router = setupRouter(&stubParticipationService{
		drawResults:  []string{"A", models.PrizeBlank},
		alreadyDrawn: true,
	})
	w = postJSON(t, router, "/participation/lotto/draw", gin.H{
		"eventId": primitive.NewObjectID().Hex(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Already checked", resp.Message)
}

func TestDrawHandlerWithoutParticipation(t *testing.T) {
	router := setupRouter(&stubParticipationService{drawErr: services.ErrNoParticipation})

	w := postJSON(t, router, "/participation/lotto/draw", gin.H{
		"eventId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyApplicationsHandler(t *testing.T) {
	apps := []*models.Application{
		{UserID: "user-1", EventTitle: "spring lotto", TicketCount: 2, Status: models.EntryStatusTicketed, DrawResults: []string{}},
	}
	router := setupRouter(&stubParticipationService{apps: apps})

	req := httptest.NewRequest(http.MethodGet, "/participation/my-apps", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []*models.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "spring lotto", got[0].EventTitle)
}
