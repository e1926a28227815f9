package delivery

import (
	"membership/config"
	"membership/domain"
	"membership/middleware"

	"github.com/gofiber/fiber/v2"
)

type statisticsHandler struct {
	uc domain.StatisticsUseCase
}

func NewStatisticsHandler(app *fiber.App, useCase domain.StatisticsUseCase) {
	handler := &statisticsHandler{
		uc: useCase,
	}

	route := app.Group("/statistics")
	route.Get("/", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.GetStatistics)
}

func (sh *statisticsHandler) GetStatistics(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	stats, err := sh.uc.ComputeStatistics(c.Context())
	if err != nil {
		return respondError(c, &userToken.Username, "GetStatistics", "Failed to compute statistics", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetStatistics")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Statistics computed successfully",
		"data":    stats,
	})
}
