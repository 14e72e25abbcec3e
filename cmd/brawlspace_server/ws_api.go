package main

import (
	"strconv"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brawlspace/brawlspace/internal/wshandler"
)

// getMissionWsHandler streams mission events (chat, system messages) to the
// client and accepts inbound chat frames on the same connection.
func getMissionWsHandler(app *App) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		id, err := strconv.ParseUint(ws.Params("id"), 10, 32)
		if err != nil {
			ws.Close()

			return
		}

		missionID := uint(id)
		userID, _ := ws.Locals(UserIDKey).(uint)
		name := uuid.NewString()

		h := wshandler.NewHandler(app.logger, name, ws).
			WithMessageHandler(func(content string) {
				_, _ = app.engine.SendMessage(missionID, userID, content)
			})

		ch := app.broadcaster.Subscribe(missionID, name)

		go func() {
			for ev := range ch {
				if !h.SendEvent(ev) {
					return
				}
			}
		}()

		app.logger.Debug("mission ws connected")
		h.Listen()
		app.broadcaster.Unsubscribe(missionID, name)
		app.logger.Debug("mission ws disconnected")
	})
}

// getNotificationWsHandler streams the global notification feed, filtered to
// what this client may see.
func getNotificationWsHandler(app *App) fiber.Handler {
	return websocket.New(func(ws *websocket.Conn) {
		userID, _ := ws.Locals(UserIDKey).(uint)
		name := uuid.NewString()

		h := wshandler.NewHandler(app.logger, name, ws)
		ch := app.notifier.Subscribe(name)

		go func() {
			for n := range ch {
				if !n.For(userID) {
					continue
				}

				if !h.SendNotification(n) {
					return
				}
			}
		}()

		app.logger.Debug("notification ws connected")
		h.Listen()
		app.notifier.Unsubscribe(name)
		app.logger.Debug("notification ws disconnected")
	})
}
