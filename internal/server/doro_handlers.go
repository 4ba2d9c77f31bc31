package server

import (
	"time"

	"crushquest/internal/featureflags"
	"crushquest/internal/feed"
	"crushquest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LaunchDoro handles POST /api/doros
func (s *Server) LaunchDoro(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Task     string    `json:"task"`
		LaunchAt time.Time `json:"launch_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	doro, err := s.doroService.Launch(c.Context(), userID, req.Task, req.LaunchAt)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doro)
}

// CompleteDoro handles POST /api/doros/:id/complete
func (s *Server) CompleteDoro(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	doroID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Notes    string `json:"notes"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Image attachments roll out per user; outside the rollout the doro
	// still completes, just without the image.
	if !s.featureFlags.Enabled(featureflags.FlagDoroImages, userID) {
		req.ImageURL = ""
	}

	doro, err := s.doroService.Complete(c.Context(), userID, doroID, req.Notes, req.ImageURL)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(doro)
}

// GetDoro handles GET /api/doros/:id
func (s *Server) GetDoro(c *fiber.Ctx) error {
	doroID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	doro, err := s.doroService.Get(c.Context(), viewerID(c), doroID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(doro)
}

// DeleteDoro handles DELETE /api/doros/:id
func (s *Server) DeleteDoro(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	doroID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.doroService.Delete(c.Context(), userID, doroID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Doro deleted"})
}

// LikeDoro handles POST /api/doros/:id/like
func (s *Server) LikeDoro(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	doroID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.doroService.Like(c.Context(), userID, doroID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Doro liked"})
}

// UnlikeDoro handles DELETE /api/doros/:id/like
func (s *Server) UnlikeDoro(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	doroID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.doroService.Unlike(c.Context(), userID, doroID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Doro unliked"})
}

// GetUserDoros handles GET /api/users/:id/doros
func (s *Server) GetUserDoros(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, feed.DefaultPageSize)

	doros, err := s.doroService.ListByUser(c.Context(), viewerID(c), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"doros": doros,
		"count": len(doros),
	})
}

// LocateDoro handles GET /api/users/:id/doros/locate?start=...&end=...
// It finds the first completed doro the user launched in the window and the
// timeline page it appears on. Missing or failing lookups read as 404.
func (s *Server) LocateDoro(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid start time, expected RFC 3339"))
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid end time, expected RFC 3339"))
	}
	// The range is inclusive on both ends, so start == end is a valid
	// single-instant window.
	if end.Before(start) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("end must not be before start"))
	}

	pageSize := c.QueryInt("page_size", feed.DefaultPageSize)

	loc := s.doroService.FindFirstInRange(c.Context(), userID, start, end, pageSize)
	if loc == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("doro in range for user", userID))
	}

	return c.JSON(loc)
}
