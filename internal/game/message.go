package game

import "time"

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser     Role = "user"
	RoleNarrator Role = "narrator"
)

// Message is one immutable transcript entry. Flashcards and the challenge
// belong to the turn that produced them; they are never aggregated across
// turns.
type Message struct {
	ID         string
	Role       Role
	Content    string // markdown
	Flashcards []Flashcard
	Challenge  *Challenge
	Timestamp  time.Time
}
