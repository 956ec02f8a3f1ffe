package controller

import (
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/services"
	"taskhive/utils"
)

type SessionController struct {
	DB     *gorm.DB
	Hub    *services.SessionHub
	Logger *logrus.Entry
}

func NewSessionController(db *gorm.DB, hub *services.SessionHub, logger *logrus.Entry) *SessionController {
	return &SessionController{DB: db, Hub: hub, Logger: logger}
}

// HandleSessionWatch streams session state over a websocket: the current
// user record is sent immediately on connect, then one event per actual
// login or logout. Closing the socket unsubscribes, so a navigated-away
// client never acts on a stale session.
func (sc *SessionController) HandleSessionWatch(c *websocket.Conn) {
	defer c.Close()

	claims, err := utils.ParseJWTToken(c.Query("token"))
	if err != nil {
		_ = c.WriteJSON(map[string]string{"error": "Invalid or expired token"})
		return
	}

	var user models.User
	if err := sc.DB.First(&user, claims.UserID).Error; err != nil {
		_ = c.WriteJSON(map[string]string{"error": "User not found"})
		return
	}
	if claims.TokenVersion != user.TokenVersion {
		_ = c.WriteJSON(map[string]string{"error": "Invalid token version"})
		return
	}

	// Initial state fires exactly once, before any change events
	if err := c.WriteJSON(services.SessionEvent{Type: "session", User: &user}); err != nil {
		return
	}

	events := sc.Hub.Subscribe(user.UID)
	defer sc.Hub.Unsubscribe(user.UID, events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-events:
			if err := c.WriteJSON(event); err != nil {
				return
			}
			if event.Type == "logout" {
				return
			}
		case <-done:
			return
		}
	}
}
