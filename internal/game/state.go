// Package game holds the shared session state of a running quiz game: the
// participant directory, the set of claimed questions and the per-question
// answer times. It is plain data with no transport dependencies so tests can
// construct isolated instances.
package game

import (
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/gitomatikus/signail/internal/models"
)

// State is not safe for concurrent use. The websocket coordinator owns the
// single goroutine that mutates it; everything else sees snapshots.
type State struct {
	clock                  clockwork.Clock
	preserveScoreOnRelogin bool

	participants map[string]*models.Participant
	selected     map[json.Number]struct{}
	answerTimes  map[json.Number]map[string]float64
}

func NewState(clock clockwork.Clock, preserveScoreOnRelogin bool) *State {
	return &State{
		clock:                  clock,
		preserveScoreOnRelogin: preserveScoreOnRelogin,
		participants:           make(map[string]*models.Participant),
		selected:               make(map[json.Number]struct{}),
		answerTimes:            make(map[json.Number]map[string]float64),
	}
}

// Login stores the participant record and returns it with the id filled in.
// A missing id is synthesized from the display name and the current epoch
// millis, matching what returning clients carry in their local storage.
// By default a re-login replaces the whole record, resetting the score to
// whatever the client sent; with preserveScoreOnRelogin the previously
// recorded score survives.
func (s *State) Login(p models.Participant) models.Participant {
	if p.ID == "" {
		p.ID = fmt.Sprintf("%s-%d", p.Name, s.clock.Now().UnixMilli())
	}
	if s.preserveScoreOnRelogin {
		if prev, ok := s.participants[p.ID]; ok {
			p.Score = prev.Score
		}
	}
	s.participants[p.ID] = &p
	return p
}

// Remove drops the participant with the given id, reporting whether it was
// present.
func (s *State) Remove(id string) bool {
	if _, ok := s.participants[id]; !ok {
		return false
	}
	delete(s.participants, id)
	return true
}

// Roster returns a snapshot of all known participants in no particular
// order. The slice is never nil so it serializes as an empty array.
func (s *State) Roster() []models.Participant {
	roster := make([]models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		roster = append(roster, *p)
	}
	return roster
}

// UpdateScore overwrites the score of an existing participant. Unknown ids
// are a silent no-op; the caller decides whether that is worth surfacing.
func (s *State) UpdateScore(id string, score int) bool {
	p, ok := s.participants[id]
	if !ok {
		return false
	}
	p.Score = score
	return true
}

// ResetScores sets every participant's score back to zero.
func (s *State) ResetScores() {
	for _, p := range s.participants {
		p.Score = 0
	}
}

// Claim marks a question as selected for play. Claiming an already claimed
// question changes nothing.
func (s *State) Claim(questionID json.Number) {
	s.selected[questionID] = struct{}{}
}

// ClearClaims empties the set of claimed questions.
func (s *State) ClearClaims() {
	s.selected = make(map[json.Number]struct{})
}

// Claims returns the claimed question ids as a never-nil slice.
func (s *State) Claims() []json.Number {
	claims := make([]json.Number, 0, len(s.selected))
	for id := range s.selected {
		claims = append(claims, id)
	}
	return claims
}

// RecordTime stores the answer latency for a (question, participant) pair.
// The first report wins: a repeat for the same pair is ignored and RecordTime
// returns false, so a client cannot overwrite its own recorded time by
// resending.
func (s *State) RecordTime(questionID json.Number, userID string, seconds float64) bool {
	times, ok := s.answerTimes[questionID]
	if !ok {
		times = make(map[string]float64)
		s.answerTimes[questionID] = times
	}
	if _, ok := times[userID]; ok {
		return false
	}
	times[userID] = seconds
	return true
}

// Times returns a copy of the participant-to-latency mapping for a question,
// empty if nothing was recorded.
func (s *State) Times(questionID json.Number) map[string]float64 {
	times := make(map[string]float64, len(s.answerTimes[questionID]))
	for userID, seconds := range s.answerTimes[questionID] {
		times[userID] = seconds
	}
	return times
}

// ClearTimes drops the recorded times for a single question.
func (s *State) ClearTimes(questionID json.Number) {
	delete(s.answerTimes, questionID)
}

// ClearAllTimes drops the recorded times for every question.
func (s *State) ClearAllTimes() {
	s.answerTimes = make(map[json.Number]map[string]float64)
}
