package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/models"
)

func TestSessionHubDeliversToSubscribers(t *testing.T) {
	hub := NewSessionHub(logrus.WithField("component", "test"))

	ch := hub.Subscribe("uid-1")
	defer hub.Unsubscribe("uid-1", ch)

	hub.Publish("uid-1", SessionEvent{Type: "login", User: &models.User{UID: "uid-1"}})

	select {
	case event := <-ch:
		assert.Equal(t, "login", event.Type)
		require.NotNil(t, event.User)
		assert.Equal(t, "uid-1", event.User.UID)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestSessionHubScopesEventsByUID(t *testing.T) {
	hub := NewSessionHub(logrus.WithField("component", "test"))

	ch := hub.Subscribe("uid-1")
	defer hub.Unsubscribe("uid-1", ch)

	hub.Publish("uid-2", SessionEvent{Type: "login"})

	select {
	case <-ch:
		t.Fatal("event for another user must not be delivered")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewSessionHub(logrus.WithField("component", "test"))

	ch := hub.Subscribe("uid-1")
	hub.Unsubscribe("uid-1", ch)

	hub.Publish("uid-1", SessionEvent{Type: "logout"})

	select {
	case <-ch:
		t.Fatal("unsubscribed channel must not receive events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewSessionHub(logrus.WithField("component", "test"))

	ch := hub.Subscribe("uid-1")
	defer hub.Unsubscribe("uid-1", ch)

	// Fill the buffer and then some; Publish must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			hub.Publish("uid-1", SessionEvent{Type: "login"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
