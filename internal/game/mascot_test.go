package game

import "testing"

func TestDeriveMascot(t *testing.T) {
	greet := MascotGreet
	thinking := MascotThinking
	wrong := QuizWrong
	correct := QuizCorrect
	neutral := QuizNeutral

	tests := []struct {
		name   string
		result *QuizResult
		action *Mascot
		want   Mascot
	}{
		{"wrong beats explicit action", &wrong, &greet, MascotAngry},
		{"correct beats explicit action", &correct, &thinking, MascotSuccess},
		{"neutral falls through to action", &neutral, &greet, MascotGreet},
		{"neutral with no action is idle", &neutral, nil, MascotIdle},
		{"no result uses action", nil, &thinking, MascotThinking},
		{"nothing at all is idle", nil, nil, MascotIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveMascot(tt.result, tt.action); got != tt.want {
				t.Errorf("DeriveMascot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDifficultySeverity(t *testing.T) {
	prev := -1
	for _, d := range AllDifficulties() {
		if d.Severity() <= prev {
			t.Errorf("difficulty %q out of order (severity %d)", d, d.Severity())
		}
		prev = d.Severity()
	}
	if Difficulty("NIGHTMARE").Severity() != -1 {
		t.Error("unknown difficulty should rank below EASY")
	}
}

func TestStandardReward(t *testing.T) {
	tests := []struct {
		d    Difficulty
		want int
	}{
		{DifficultyEasy, 15},
		{DifficultyMedium, 35},
		{DifficultyHard, 60},
		{DifficultyBoss, 100},
		{Difficulty("??"), 0},
	}
	for _, tt := range tests {
		if got := tt.d.StandardReward(); got != tt.want {
			t.Errorf("StandardReward(%q) = %d, want %d", tt.d, got, tt.want)
		}
	}
}
