package game

// Mascot is a presentation hint for the character sprites. It is consumed
// immediately by the UI and never persisted.
type Mascot string

const (
	MascotGreet    Mascot = "GREET"
	MascotThinking Mascot = "THINKING"
	MascotSuccess  Mascot = "SUCCESS"
	MascotIdle     Mascot = "IDLE"
	MascotAngry    Mascot = "ANGRY"
)

// QuizResult is the engine's verdict on the user's previous answer.
type QuizResult string

const (
	QuizCorrect QuizResult = "CORRECT"
	QuizWrong   QuizResult = "WRONG"
	QuizNeutral QuizResult = "NEUTRAL"
)

// DeriveMascot maps one engine turn to a mascot directive. Priority order,
// first match wins: wrong answer, correct answer, the engine's explicit
// action, idle. It has no memory of the previous directive.
func DeriveMascot(result *QuizResult, action *Mascot) Mascot {
	if result != nil {
		switch *result {
		case QuizWrong:
			return MascotAngry
		case QuizCorrect:
			return MascotSuccess
		}
	}
	if action != nil {
		return *action
	}
	return MascotIdle
}
