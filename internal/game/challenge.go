package game

// Difficulty is the challenge tier, ordered by severity.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyBoss   Difficulty = "BOSS"
)

// AllDifficulties returns the tiers in ascending severity.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyBoss}
}

// Severity returns the ordinal rank of the tier (EASY=0 … BOSS=3).
// Unknown tiers rank below EASY.
func (d Difficulty) Severity() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	case DifficultyBoss:
		return 3
	default:
		return -1
	}
}

// StandardReward returns the expected XP reward for the tier. The engine
// is asked to follow this table but the client tolerates any value it
// actually sends.
func (d Difficulty) StandardReward() int {
	switch d {
	case DifficultyEasy:
		return 15
	case DifficultyMedium:
		return 35
	case DifficultyHard:
		return 60
	case DifficultyBoss:
		return 100
	default:
		return 0
	}
}

// Challenge is a quiz prompt attached to the narrator message that
// introduced it. Whether it is still "open" is the engine's business;
// the client keeps no separate record.
type Challenge struct {
	Title       string
	Description string
	Difficulty  Difficulty
	XPReward    int
}

// Flashcard is a term/definition pair extracted from the document.
type Flashcard struct {
	Term       string
	Definition string
}
