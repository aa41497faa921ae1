package handlers

import (
	"context"

	"adsouq/internal/middleware"
	"adsouq/internal/services/ad"
	"adsouq/internal/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AdHandler struct {
	ads      ad.Service
	validate *validator.Validate
}

func NewAdHandler(ads ad.Service) *AdHandler {
	if ads == nil {
		panic("ad service is required")
	}
	return &AdHandler{ads: ads, validate: validator.New()}
}

type createAdRequest struct {
	CategoryKey string         `json:"category" validate:"required"`
	Title       string         `json:"title" validate:"required,max=200"`
	Price       *float64       `json:"price"`
	City        string         `json:"city" validate:"required,max=100"`
	Values      map[string]any `json:"values"`
	Images      []string       `json:"images" validate:"omitempty,dive,url"`
	Video       string         `json:"video" validate:"omitempty,url"`
}

type updateAdRequest struct {
	Title  *string        `json:"title" validate:"omitempty,max=200"`
	Price  *float64       `json:"price"`
	City   *string        `json:"city" validate:"omitempty,max=100"`
	Values map[string]any `json:"values"`
	Images *[]string      `json:"images" validate:"omitempty,dive,url"`
	Video  *string        `json:"video" validate:"omitempty,url"`
}

// Create makes a new draft ad with its dynamic attribute values.
func (h *AdHandler) Create(c *fiber.Ctx) error {
	var req createAdRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	detail, err := h.ads.Create(c.Context(), middleware.UserID(c), ad.CreateAdInput{
		CategoryKey: req.CategoryKey,
		Title:       req.Title,
		Price:       req.Price,
		City:        req.City,
		Values:      req.Values,
		Images:      req.Images,
		Video:       req.Video,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusCreated, detail)
}

// Update applies a partial patch to an owned ad.
func (h *AdHandler) Update(c *fiber.Ctx) error {
	adID, err := c.ParamsInt("id")
	if err != nil || adID <= 0 {
		return response.BadRequest(c, "invalid ad id")
	}

	var req updateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	detail, err := h.ads.Update(c.Context(), middleware.UserID(c), uint(adID), ad.UpdateAdInput{
		Title:  req.Title,
		Price:  req.Price,
		City:   req.City,
		Values: req.Values,
		Images: req.Images,
		Video:  req.Video,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, detail)
}

// Publish makes an owned ad publicly visible.
func (h *AdHandler) Publish(c *fiber.Ctx) error {
	return h.transition(c, h.ads.Publish)
}

// Unpublish takes an owned ad back to draft.
func (h *AdHandler) Unpublish(c *fiber.Ctx) error {
	return h.transition(c, h.ads.Unpublish)
}

// Archive retires an owned ad permanently.
func (h *AdHandler) Archive(c *fiber.Ctx) error {
	return h.transition(c, h.ads.Archive)
}

// MyAds lists every ad the caller owns, newest first.
func (h *AdHandler) MyAds(c *fiber.Ctx) error {
	ads, err := h.ads.MyAds(c.Context(), middleware.UserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, ads)
}

// PublicByCode serves the anonymous view of a published ad.
func (h *AdHandler) PublicByCode(c *fiber.Ctx) error {
	pub, err := h.ads.PublicByCode(c.Context(), c.Params("code"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, pub)
}

func (h *AdHandler) transition(c *fiber.Ctx, op func(ctx context.Context, ownerID, adID uint) error) error {
	adID, err := c.ParamsInt("id")
	if err != nil || adID <= 0 {
		return response.BadRequest(c, "invalid ad id")
	}
	if err := op(c.Context(), middleware.UserID(c), uint(adID)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, fiber.Map{"id": adID})
}
