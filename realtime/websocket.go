package realtime

import (
	"log"

	"smmpanel/database"
	"smmpanel/models"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades an authenticated request to a websocket that streams
// invalidation events for the caller's scope. Admins receive events for
// every account.
func Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userId, ok := conn.Locals("userId").(uint)
		if !ok {
			conn.Close()
			return
		}

		var user models.User
		if err := database.Database.Db.
			Where("id = ? AND is_deleted = false", userId).
			First(&user).Error; err != nil {
			conn.Close()
			return
		}

		sub := Subscribe(userId, user.Role == "ADMIN")
		defer sub.Close()

		// Reader only watches for the peer going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev := <-sub.C:
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("websocket write failed for user %d: %v", userId, err)
					return
				}
			case <-done:
				return
			}
		}
	})
}
