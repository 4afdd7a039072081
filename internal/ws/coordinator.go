// Package ws implements the session coordinator: it tracks connected
// clients, binds connections to participants, routes inbound game events and
// fans the resulting state out to every open connection.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gitomatikus/signail/internal/game"
	"github.com/gitomatikus/signail/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type inboundFrame struct {
	client *Client
	raw    []byte
}

// Coordinator owns the connection registry, the connection-to-participant
// bindings and the game state. A single Run goroutine serializes every
// mutation: one event is handled to completion, broadcasts included, before
// the next one starts, so the state needs no locking.
type Coordinator struct {
	state *game.State

	clients  map[*Client]bool
	bindings map[*Client]string

	register   chan *Client
	disconnect chan *Client
	inbound    chan inboundFrame
	calls      chan func()
}

func NewCoordinator(state *game.State) *Coordinator {
	return &Coordinator{
		state:      state,
		clients:    make(map[*Client]bool),
		bindings:   make(map[*Client]string),
		register:   make(chan *Client),
		disconnect: make(chan *Client),
		inbound:    make(chan inboundFrame),
		calls:      make(chan func()),
	}
}

// Run processes registrations, disconnects and inbound events until the
// context is cancelled.
func (co *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case client := <-co.register:
			co.admit(client)

		case client := <-co.disconnect:
			co.evict(client)

		case frame := <-co.inbound:
			co.route(frame.client, frame.raw)

		case fn := <-co.calls:
			fn()

		case <-ctx.Done():
			return
		}
	}
}

// ServeWS upgrades the request and admits the connection to the broadcast
// domain.
func (co *Coordinator) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	client := newClient(co, conn)
	co.register <- client

	go client.writePump()
	go client.readPump()
}

// admit registers the connection and sends it the current claims snapshot,
// so a late joiner sees in-progress selections without waiting for the next
// mutation.
func (co *Coordinator) admit(client *Client) {
	co.clients[client] = true
	log.Printf("ws: client %s connected (total: %d)", client.id, len(co.clients))
	co.sendTo(client, Event{Type: "selected_questions_update", Data: co.state.Claims()})
}

// evict removes the connection and, if a participant was bound to it, drops
// that participant from the roster. A connection closing without a prior
// logout must not leak a roster entry.
func (co *Coordinator) evict(client *Client) {
	co.drop(client)

	id, ok := co.bindings[client]
	if !ok {
		return
	}
	delete(co.bindings, client)
	co.state.Remove(id)
	co.broadcastRoster()
}

// drop removes the client from the registry and closes its send channel.
// Calling it again for the same client is a no-op.
func (co *Coordinator) drop(client *Client) {
	if _, ok := co.clients[client]; !ok {
		return
	}
	delete(co.clients, client)
	close(client.send)
	log.Printf("ws: client %s disconnected (total: %d)", client.id, len(co.clients))
}

// broadcast serializes the event once and enqueues it on every open
// connection. Delivery is fire and forget: a peer whose buffer is full is
// dropped instead of buffered without bound, and its roster entry is cleaned
// up when its read pump reports the close.
func (co *Coordinator) broadcast(ev Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for client := range co.clients {
		select {
		case client.send <- raw:
		default:
			co.drop(client)
		}
	}
}

// sendTo enqueues the event on a single connection. A client dropped for
// stalling can still have frames in flight from its read pump, so a sender
// no longer in the registry is skipped rather than enqueued on a closed
// channel.
func (co *Coordinator) sendTo(client *Client, ev Event) {
	if _, ok := co.clients[client]; !ok {
		return
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	select {
	case client.send <- raw:
	default:
		co.drop(client)
	}
}

func (co *Coordinator) broadcastRoster() {
	co.broadcast(Event{Type: "online_users", Data: co.state.Roster()})
}

func (co *Coordinator) broadcastClaims() {
	co.broadcast(Event{Type: "selected_questions_update", Data: co.state.Claims()})
}

// call runs fn on the coordinator goroutine and waits for it to finish,
// giving HTTP handlers the same serialization as websocket events.
func (co *Coordinator) call(fn func()) {
	done := make(chan struct{})
	co.calls <- func() {
		fn()
		close(done)
	}
	<-done
}

// OnlineUsers returns the current roster snapshot.
func (co *Coordinator) OnlineUsers() []models.Participant {
	var roster []models.Participant
	co.call(func() { roster = co.state.Roster() })
	return roster
}

// UpdateScore overwrites a participant's score and broadcasts the updated
// roster. It reports false when the id is unknown.
func (co *Coordinator) UpdateScore(id string, score int) bool {
	var ok bool
	co.call(func() {
		ok = co.state.UpdateScore(id, score)
		if ok {
			co.broadcastRoster()
		}
	})
	return ok
}

// QuestionTimes returns the recorded answer times for one question.
func (co *Coordinator) QuestionTimes(questionID json.Number) map[string]float64 {
	var times map[string]float64
	co.call(func() { times = co.state.Times(questionID) })
	return times
}

// ClearQuestionTimes drops the recorded answer times for one question.
func (co *Coordinator) ClearQuestionTimes(questionID json.Number) {
	co.call(func() { co.state.ClearTimes(questionID) })
}
