package handlers

import (
	"adsouq/internal/middleware"
	"adsouq/internal/services/sticker"
	"adsouq/internal/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type QRHandler struct {
	stickers sticker.Service
	validate *validator.Validate
}

func NewQRHandler(stickers sticker.Service) *QRHandler {
	if stickers == nil {
		panic("sticker service is required")
	}
	return &QRHandler{stickers: stickers, validate: validator.New()}
}

type claimRequest struct {
	AdID uint `json:"ad_id" validate:"required"`
}

func scanMeta(c *fiber.Ctx) sticker.ScanMeta {
	return sticker.ScanMeta{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
		Referrer:  c.Get("Referer"),
	}
}

// Claim binds a printed sticker to the caller's ad without activating it.
func (h *QRHandler) Claim(c *fiber.Ctx) error {
	var req claimRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	err := h.stickers.Claim(c.Context(), middleware.UserID(c), req.AdID, c.Params("code"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, fiber.Map{"claimed": true})
}

// Activate performs the first-scan transition: bind, activate and publish in
// one step. Retries after a flaky connection succeed and report already_active.
func (h *QRHandler) Activate(c *fiber.Ctx) error {
	var req claimRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.stickers.Activate(c.Context(), middleware.UserID(c), req.AdID, c.Params("code"), scanMeta(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, result)
}

// Landing handles an anonymous sticker scan. Active codes redirect to the
// public ad page; the other outcomes are returned for the client to render.
func (h *QRHandler) Landing(c *fiber.Ctx) error {
	result, err := h.stickers.RecordScan(c.Context(), c.Params("code"), scanMeta(c))
	if err != nil {
		return response.FromError(c, err)
	}
	if result.Outcome == sticker.OutcomeActive {
		return c.Redirect(result.PublicURL, fiber.StatusFound)
	}
	return response.Success(c, fiber.StatusOK, result)
}
