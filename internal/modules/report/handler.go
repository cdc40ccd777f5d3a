package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hoteldesk/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/guests", h.ListGuests)
	rg.GET("/notifications", h.GetNotifications)
}

func (h *Handler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Stats())
}

func (h *Handler) ListGuests(c *gin.Context) {
	guests := h.service.Guests()
	response.Success(c, http.StatusOK, gin.H{"guests": guests, "count": len(guests)})
}

// GetNotifications returns the front-desk reminders for today.
//
// Endpoint: GET /api/v1/notifications
func (h *Handler) GetNotifications(c *gin.Context) {
	list := h.service.Notifications()
	response.Success(c, http.StatusOK, gin.H{"notifications": list, "count": len(list)})
}
