package server

import (
	"crushquest/internal/featureflags"
	"crushquest/internal/feed"
	"crushquest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed?mode=global|following&limit=N
func (s *Server) GetFeed(c *fiber.Ctx) error {
	mode := feed.Mode(c.Query("mode", string(feed.ModeGlobal)))
	limit := c.QueryInt("limit")

	doros, err := s.feedService.GetFeed(c.Context(), viewerID(c), mode)
	if err != nil {
		return respondServiceError(c, err)
	}
	// The fetch window caps how many doros the service returns, so limit
	// only ever trims that result further.
	if limit > 0 && limit < len(doros) {
		doros = doros[:limit]
	}

	return c.JSON(fiber.Map{
		"doros": doros,
		"mode":  mode,
		"count": len(doros),
	})
}

// GetGlobalLeaderboard handles GET /api/leaderboard?tz=<IANA name>
func (s *Server) GetGlobalLeaderboard(c *fiber.Ctx) error {
	rows, err := s.leaderboardService.Global(c.Context(), viewerID(c), c.Query("tz"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"leaderboard": rows})
}

// GetFriendsLeaderboard handles GET /api/leaderboard/friends?tz=<IANA name>
func (s *Server) GetFriendsLeaderboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if !s.featureFlags.Enabled(featureflags.FlagFriendsLeaderboard, userID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("resource", "friends_leaderboard"))
	}

	rows, err := s.leaderboardService.Friends(c.Context(), userID, c.Query("tz"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"leaderboard": rows})
}
