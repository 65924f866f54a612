package location

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	// Fix intake comes from the hiker's device, no admin token involved.
	r.Post("/", func(c *fiber.Ctx) error {
		var req Fix
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.HikerID == 0 || req.Latitude == 0 || req.Longitude == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "hiker_id, latitude and longitude required")
		}
		fix, err := svc.Accept(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"success": true, "data": fix})
	})

	r.Get("/live", func(c *fiber.Ctx) error {
		fixes, err := svc.Live(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fixes)
	})
}
