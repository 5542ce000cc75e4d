package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/client"
	"github.com/terraquiz/terraquiz/internal/config"
	"github.com/terraquiz/terraquiz/internal/logger"
)

func main() {
	cfg := config.Load()
	// Terminal UI and log lines share stdout; keep the logger quiet unless
	// asked for more.
	log := logger.Setup(getQuietLevel(cfg.LogLevel), cfg.LogFormat)

	api, err := client.New(cfg.QuizServerURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create quiz client")
	}

	pres := newTermPresenter(os.Stdout)
	ctl := client.NewController(api, pres, client.NewImageLoader(), log)

	fmt.Printf("TerraQuiz — geography trivia (%s)\n", cfg.QuizServerURL)
	fmt.Println("Commands: 1-4 answer · n next question · h hint · s history · q quit")

	ctx := context.Background()
	ctl.NextQuestion(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Println("Bye!")
			return
		case "n", "next":
			ctl.NextQuestion(ctx)
		case "h", "hint":
			ctl.ShowHint()
		case "s", "history":
			ctl.LoadHistory(ctx)
		default:
			idx, err := strconv.Atoi(input)
			if err != nil || idx < 1 {
				fmt.Println("Type an option number, or n / h / s / q.")
				continue
			}
			option, ok := pres.optionAt(idx - 1)
			if !ok {
				fmt.Println("No such option.")
				continue
			}
			ctl.SelectAnswer(ctx, option)
			// Give the image goroutine a beat so its line lands before the
			// next prompt rather than in the middle of typing.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// getQuietLevel bumps the default level to warn for the interactive client.
func getQuietLevel(level string) string {
	if level == "info" {
		return "warn"
	}
	return level
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
