package hiker

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	// Public registration endpoint used by the visitor-facing form.
	r.Post("/daftar", func(c *fiber.Ctx) error {
		var req RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || req.IC == "" || req.Phone == "" || req.EmergencyContact == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
		}
		h, err := svc.Register(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful", "data": h})
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		hikers, err := svc.List(c.Context(), c.Query("search"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(hikers)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid hiker id")
		}
		var req Hiker
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h, err := svc.Update(c.Context(), id, req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(h)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid hiker id")
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
