package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"geofencing-app/geofencing-service/internal/models"
)

type LocationService interface {
	Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResponse, *models.ServiceError)
	Retrieve(ctx context.Context, req *models.RetrievalRequest) (*models.RetrievalResponse, *models.ServiceError)
}

type LocationHandler struct {
	service LocationService
}

func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// POST /location-verification/v1/location/verify
func (h *LocationHandler) Verify(c *gin.Context) {
	var req models.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, svcErr := h.service.Verify(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.Status, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /location-retrieval/v0.4/retrieve
func (h *LocationHandler) Retrieve(c *gin.Context) {
	var req models.RetrievalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, svcErr := h.service.Retrieve(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.Status, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Callback is a local debug sink: point a subscription at /callback to see
// the events this service emits.
func (h *LocationHandler) Callback(c *gin.Context) {
	var event map[string]interface{}
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[Callback] Received event: %v", event)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Health reports service liveness.
func (h *LocationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"apis": []string{
			"Geofencing Subscriptions v0.4",
			"Location Verification v1",
			"Location Retrieval v0.4",
		},
		"integration": "NEF-Emulator",
		"timestamp":   models.UTCTimestamp(time.Now()),
	})
}
