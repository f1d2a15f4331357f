package controller

import (
	"team-knowledge-be/internal/pkg/serverutils"
	"team-knowledge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Feed(ctx *fiber.Ctx) error
}

type activityController struct {
	activityService service.IActivityService
}

func NewActivityController(activityService service.IActivityService) IActivityController {
	return &activityController{
		activityService: activityService,
	}
}

func (c *activityController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/activity/v1")
	h.Use(authMiddleware)
	h.Get("", c.Feed)
}

func (c *activityController) Feed(ctx *fiber.Ctx) error {
	res, err := c.activityService.Feed(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list activities", res))
}
