package qrsession

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.HikingDate == "" || req.GuiderID == "" || req.Capacity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "hiking_date, guider_id and capacity required")
		}
		session, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	r.Get("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		sessions, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sessions)
	})

	// Scanning clients post either the raw token value or a bare session_id.
	r.Post("/resolve", func(c *fiber.Ctx) error {
		var req struct {
			SessionID string `json:"session_id"`
			QRValue   string `json:"qr_value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		sessionID := req.SessionID
		if sessionID == "" && req.QRValue != "" {
			tok, err := DecodeToken(req.QRValue)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			sessionID = tok.SessionID
		}
		if sessionID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "session_id required")
		}

		session, err := svc.Resolve(c.Context(), sessionID)
		if errors.Is(err, ErrSessionInactive) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(session)
	})

	r.Post("/sessions/:id/deactivate", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Deactivate(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": StatusInactive})
	})

	r.Get("/sessions/:id/display", authMiddleware, func(c *fiber.Ctx) error {
		value, err := svc.Display(c.Context(), c.Params("id"))
		if errors.Is(err, ErrSessionNotActive) || errors.Is(err, ErrTokenNotIssued) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"qr_value": value})
	})

	r.Post("/sessions/reconcile", authMiddleware, func(c *fiber.Ctx) error {
		repaired, err := svc.Reconcile(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"repaired": len(repaired), "sessions": repaired})
	})

	r.Get("/sessions/:id/hikers", func(c *fiber.Ctx) error {
		hikers, err := svc.ActiveHikers(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(hikers)
	})
}
