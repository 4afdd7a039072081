package ws

import (
	"encoding/json"
	"log"

	"github.com/gitomatikus/signail/internal/models"
)

// route dispatches one inbound frame by its type tag. Unknown types are
// ignored and malformed frames are logged and dropped; neither closes the
// connection, so one misbehaving client never takes the game down.
func (co *Coordinator) route(client *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("ws: malformed message from %s: %v", client.id, err)
		return
	}

	switch msg.Type {
	case "user_login":
		co.handleLogin(client, msg.Data)

	case "user_logout":
		co.handleLogout(client, msg.Data)

	case "question_select":
		co.handleQuestionSelect(msg.Data)

	case "question_reveal", "answer_reveal", "response_reveal":
		// Reveal progression is a pure relay: the coordinator stores nothing
		// and enforces no ordering between the reveal stages.
		co.relay(msg)

	case "return_to_game":
		co.broadcast(Event{Type: "return_to_game"})

	case "elapsed_time":
		co.handleElapsedTime(msg.Data)

	case "clear_selected_questions":
		co.state.ClearClaims()
		co.broadcastClaims()

	case "request_selected_questions":
		// Query, not mutation: only the asker gets the snapshot.
		co.sendTo(client, Event{Type: "selected_questions_update", Data: co.state.Claims()})

	case "clear_cache":
		co.handleClearCache()

	case "update_score":
		co.handleUpdateScore(msg.Data)

	default:
		// The board client emits types the server never acted on
		// (round_change among them); they fall through here.
	}
}

// relay broadcasts the frame back out unchanged.
func (co *Coordinator) relay(msg Message) {
	ev := Event{Type: msg.Type}
	if msg.Data != nil {
		ev.Data = msg.Data
	}
	co.broadcast(ev)
}

func (co *Coordinator) handleLogin(client *Client, data json.RawMessage) {
	var payload struct {
		ID       string      `json:"id"`
		Name     string      `json:"name"`
		ImageURL string      `json:"imageUrl"`
		Score    interface{} `json:"score"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("ws: bad user_login payload: %v", err)
		return
	}

	// Anything non-numeric counts as no score at all.
	score := 0
	if f, ok := payload.Score.(float64); ok {
		score = int(f)
	}

	participant := co.state.Login(models.Participant{
		ID:       payload.ID,
		Name:     payload.Name,
		ImageURL: payload.ImageURL,
		Score:    score,
	})

	// Last login on a connection wins. An identity logged in earlier on the
	// same connection stays in the directory until it logs out explicitly.
	co.bindings[client] = participant.ID
	co.broadcastRoster()
}

func (co *Coordinator) handleLogout(client *Client, data json.RawMessage) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("ws: bad user_logout payload: %v", err)
		return
	}

	// The id to remove comes from the payload, not from the binding; the
	// client names itself and is taken at its word.
	delete(co.bindings, client)
	co.state.Remove(payload.ID)
	co.broadcastRoster()
}

func (co *Coordinator) handleQuestionSelect(data json.RawMessage) {
	var payload struct {
		QuestionID json.Number `json:"questionId"`
		UserType   string      `json:"userType"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("ws: bad question_select payload: %v", err)
		return
	}
	if payload.QuestionID == "" {
		return
	}

	co.state.Claim(payload.QuestionID)
	// The select event echoes the payload verbatim, userType included, then
	// the claims snapshot follows.
	co.broadcast(Event{Type: "question_select", Data: data})
	co.broadcastClaims()
}

func (co *Coordinator) handleElapsedTime(data json.RawMessage) {
	var payload struct {
		QuestionID  json.Number `json:"questionId"`
		ElapsedTime float64     `json:"elapsedTime"`
		UserID      string      `json:"userId"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("ws: bad elapsed_time payload: %v", err)
		return
	}

	// First report wins; a repeat for the same (question, user) pair is
	// dropped without a broadcast.
	if !co.state.RecordTime(payload.QuestionID, payload.UserID, payload.ElapsedTime) {
		return
	}
	co.broadcast(Event{Type: "elapsed_time", Data: data})
}

// handleClearCache resets the whole game: claims, answer times and scores.
// Clients hear about the times first, then the empty claims, then the
// zeroed roster.
func (co *Coordinator) handleClearCache() {
	co.state.ClearClaims()
	co.state.ClearAllTimes()
	co.broadcast(Event{Type: "clear_question_times"})
	co.state.ResetScores()
	co.broadcastClaims()
	co.broadcastRoster()
}

func (co *Coordinator) handleUpdateScore(data json.RawMessage) {
	var payload struct {
		UserID string      `json:"userId"`
		Score  interface{} `json:"score"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("ws: bad update_score payload: %v", err)
		return
	}

	f, ok := payload.Score.(float64)
	if !ok {
		return
	}
	if co.state.UpdateScore(payload.UserID, int(f)) {
		co.broadcastRoster()
	}
}
