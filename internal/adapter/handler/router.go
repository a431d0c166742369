package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

// NewRouter wires the HTTP surface.
func NewRouter(meetingHandler *MeetingHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.NewCustomValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/v1")
	meetings := v1.Group("/meetings")
	meetings.POST("", meetingHandler.Ingest)
	meetings.POST("/audio", meetingHandler.IngestAudio)
	meetings.POST("/:id/analysis", meetingHandler.Analyze)
	meetings.GET("/:id/analysis", meetingHandler.GetAnalysis)
	meetings.POST("/:id/questions", meetingHandler.Ask)
	meetings.DELETE("/:id", meetingHandler.Delete)

	return e
}
