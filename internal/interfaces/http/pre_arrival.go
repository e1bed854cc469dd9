package http

import (
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"riad/internal/application/usecases/prearrival"
)

type PreArrivalResponse struct {
	Success    bool               `json:"success"`
	TargetDate string             `json:"targetDate"`
	Results    prearrival.Results `json:"results"`
}

func (s *Server) PreArrivalHandler(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := s.preArrival.Run(ctx)
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Pre-arrival run failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, PreArrivalResponse{
		Success:    true,
		TargetDate: report.TargetDate,
		Results:    report.Results,
	})
}
