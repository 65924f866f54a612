package alert

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.HikerID == 0 || req.EmergencyType == "" {
			return fiber.NewError(fiber.StatusBadRequest, "hiker_id and emergency_type required")
		}
		a, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		alerts, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(alerts)
	})

	r.Post("/:id/ack", authMiddleware, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid alert id")
		}
		changed, err := svc.Acknowledge(c.Context(), id, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"acknowledged": changed})
	})
}
