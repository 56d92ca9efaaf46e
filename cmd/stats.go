package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/specter/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show heist statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		repo := s.EventRepo()

		turns, err := repo.TurnStatsTotal(ctx)
		if err != nil {
			return fmt.Errorf("query turn stats: %w", err)
		}

		fmt.Println("Turns")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-24s  %d\n", "Total", turns.Turns)
		fmt.Printf("%-24s  %d\n", "Failed (engine)", turns.Failed)
		fmt.Printf("%-24s  %d\n", "Correct answers", turns.QuizCorrect)
		fmt.Printf("%-24s  %d\n", "Wrong answers", turns.QuizWrong)
		fmt.Printf("%-24s  %d\n", "XP earned", turns.XPEarned)
		fmt.Printf("%-24s  %d\n", "XP lost", turns.XPLost)

		sessions, err := repo.QuerySessionEvents(ctx, store.QueryOpts{Limit: 10})
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}
		if len(sessions) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Recent Heists")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-19s  %-6s  %-24s  %-5s  %-5s  %s\n",
			"When", "Event", "Target", "Lvl", "XP", "Turns")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range sessions {
			name := e.DocumentName
			if len(name) > 24 {
				name = name[:24]
			}
			fmt.Printf("%-19s  %-6s  %-24s  %-5d  %-5d  %d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Action, name, e.FinalLevel, e.FinalXP, e.Turns)
		}
		return nil
	},
}
