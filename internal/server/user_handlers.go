package server

import (
	"crushquest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), userID, req.DisplayName, req.AvatarURL)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// SetFollowersOnly handles PUT /api/users/me/followers-only. Toggling the
// switch changes visibility of the user's entire timeline at read time.
func (s *Server) SetFollowersOnly(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		FollowersOnly *bool `json:"followers_only"`
	}
	if err := c.BodyParser(&req); err != nil || req.FollowersOnly == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("followers_only is required"))
	}

	if err := s.userService.SetFollowersOnly(c.Context(), userID, *req.FollowersOnly); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"followers_only": *req.FollowersOnly})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.Context(), viewerID(c), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}
