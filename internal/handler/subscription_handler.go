package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"geofencing-app/geofencing-service/internal/models"
)

type GeofencingService interface {
	Create(ctx context.Context, req *models.SubscriptionRequest) (*models.Subscription, *models.ServiceError)
	Get(id string) (*models.Subscription, error)
	List() []models.Subscription
	Delete(ctx context.Context, id string) error
}

type SubscriptionHandler struct {
	service GeofencingService
}

func NewSubscriptionHandler(svc GeofencingService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// POST /geofencing-subscriptions/v0.4/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req models.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, svcErr := h.service.Create(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.Status, svcErr)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// GET /geofencing-subscriptions/v0.4/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	subs := h.service.List()
	if subs == nil {
		subs = make([]models.Subscription, 0)
	}
	c.JSON(http.StatusOK, subs)
}

// GET /geofencing-subscriptions/v0.4/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Subscription not found"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DELETE /geofencing-subscriptions/v0.4/subscriptions/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
