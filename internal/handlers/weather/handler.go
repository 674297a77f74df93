package weather

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

const timeoutDuration = 10 * time.Second

type snapshotGetter interface {
	GetByCity(ctx context.Context, city string) (models.Snapshot, error)
}

type Handler struct {
	Service snapshotGetter
}

func NewHandler(svc snapshotGetter) *Handler {
	return &Handler{Service: svc}
}

// GetWeather
// @Summary Get current weather and forecast
// @Description Returns the current conditions and daily forecast for a given city
// @Tags weather
// @Accept json
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} models.Snapshot
// @Failure 400
// @Failure 404
// @Failure 500
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	data, err := h.Service.GetByCity(ctx, city)
	if err != nil {
		if strings.Contains(err.Error(), "status 404") {
			c.JSON(http.StatusNotFound, gin.H{"error": "City not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, data)
}
