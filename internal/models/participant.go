package models

// Participant is a logged-in player or admin. The ID is stable across
// reconnects; JSON field names match the wire protocol spoken by the board
// client.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Score    int    `json:"score"`
}
