package widget

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Priya-creates/weather-widget-api/internal/models"
)

const timeoutDuration = 10 * time.Second

type widgetService interface {
	Initialize(ctx context.Context) models.WidgetView
	RequestLocation(ctx context.Context) models.WidgetView
	Submit(ctx context.Context, city string) models.WidgetView
	ToggleUnit() models.WidgetView
	View() models.WidgetView
}

type submitRequest struct {
	City string `json:"city" binding:"required"`
}

type Handler struct {
	Service widgetService
}

func NewHandler(svc widgetService) *Handler {
	return &Handler{Service: svc}
}

// Initialize
// @Summary Initialize the widget
// @Description Resolves the starting city from the saved one, geolocation or the default and starts the first fetch.
// @Tags widget
// @Produce json
// @Success 200 {object} models.WidgetView
// @Router /widget/init [post]
func (h *Handler) Initialize(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	c.JSON(http.StatusOK, h.Service.Initialize(ctx))
}

// Locate
// @Summary Detect the city by location
// @Description Starts a geolocation attempt and reports the widget state while it runs.
// @Tags widget
// @Produce json
// @Success 200 {object} models.WidgetView
// @Router /widget/locate [post]
func (h *Handler) Locate(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	c.JSON(http.StatusOK, h.Service.RequestLocation(ctx))
}

// Submit
// @Summary Search for a city
// @Description Switches the widget to the submitted city and starts a fetch for it.
// @Tags widget
// @Accept json
// @Produce json
// @Param request body submitRequest true "City to show weather for"
// @Success 200 {object} models.WidgetView
// @Failure 400
// @Router /widget/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Printf("Failed to bind submit request: %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	c.JSON(http.StatusOK, h.Service.Submit(ctx, req.City))
}

// ToggleUnit
// @Summary Toggle temperature units
// @Description Switches the view between Celsius and Fahrenheit without refetching.
// @Tags widget
// @Produce json
// @Success 200 {object} models.WidgetView
// @Router /widget/unit/toggle [post]
func (h *Handler) ToggleUnit(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.ToggleUnit())
}

// GetView
// @Summary Current widget state
// @Description Returns the widget state with temperatures converted into the active unit.
// @Tags widget
// @Produce json
// @Success 200 {object} models.WidgetView
// @Router /widget [get]
func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.View())
}
