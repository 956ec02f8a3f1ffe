package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"taskhive/models"
)

// SessionEvent is pushed to watchers whenever a user's session state
// changes. The "session" event carries the current state on subscribe;
// "login" and "logout" follow actual changes, nothing fires in between.
type SessionEvent struct {
	Type string       `json:"type"` // session, login, logout
	User *models.User `json:"user,omitempty"`
}

// SessionHub fans session events out to websocket watchers, keyed by user
// UID. Slow subscribers drop events rather than blocking a login.
type SessionHub struct {
	mu     sync.Mutex
	subs   map[string]map[chan SessionEvent]struct{}
	logger *logrus.Entry
}

func NewSessionHub(logger *logrus.Entry) *SessionHub {
	return &SessionHub{
		subs:   make(map[string]map[chan SessionEvent]struct{}),
		logger: logger,
	}
}

// Subscribe registers a watcher for one user's session events. The caller
// must Unsubscribe when its view is torn down so stale sessions are never
// acted on.
func (h *SessionHub) Subscribe(uid string) chan SessionEvent {
	ch := make(chan SessionEvent, 8)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[uid] == nil {
		h.subs[uid] = make(map[chan SessionEvent]struct{})
	}
	h.subs[uid][ch] = struct{}{}
	return ch
}

func (h *SessionHub) Unsubscribe(uid string, ch chan SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[uid]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, uid)
		}
	}
}

// Publish delivers an event to every watcher of uid.
func (h *SessionHub) Publish(uid string, event SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[uid] {
		select {
		case ch <- event:
		default:
			h.logger.WithField("uid", uid).Warn("session watcher too slow, dropping event")
		}
	}
}
