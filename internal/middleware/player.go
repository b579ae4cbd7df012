package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

const PlayerIDHeader = "X-Player-ID"

// EnsurePlayerID reads the player ID from the X-Player-ID header or the
// playerId query parameter. Browsers cannot set headers on a websocket
// handshake, hence the query fallback.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			log.Debugf("request to %s without player ID", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Header and query values point into a buffer fasthttp reuses for the
		// next request on the connection; games keep this ID, so copy it.
		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
