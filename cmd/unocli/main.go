// cmd/unocli/main.go is a terminal client playing against the same engine as the bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jason-s-yu/unobot/internal/cli"
	"github.com/jason-s-yu/unobot/internal/config"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/storage"
	_ "github.com/joho/godotenv/autoload"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
)

const sessionKey = "cli:local"

func main() {
	seed := flag.Int64("seed", 0, "Seed the shuffle for a reproducible game (0 = random)")
	policyName := flag.String("policy", "", "Opponent policy: first or random (default from OPPONENT_POLICY)")
	noRecord := flag.Bool("no-record", false, "Do not record finished games")
	flag.Parse()

	logger := logrus.New()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	// the prompt owns the terminal, keep the log quiet
	logger.SetLevel(logrus.WarnLevel)

	if *policyName == "" {
		*policyName = cfg.OpponentPolicy
	}
	policy, err := game.PolicyByName(*policyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctrl := game.NewController(game.NewSessionStore(), logger)
	ctrl.Policy = policy
	if *seed != 0 {
		ctrl.NewRand = game.Seeded(*seed)
	}

	if !*noRecord {
		store, err := storage.New(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Warn("Results will not be recorded.")
		} else {
			defer store.Close()
			ctrl.Recorder = store
			if st, err := store.Stats(context.Background(), sessionKey); err == nil && st.Games > 0 {
				cli.C.Header.Printf("Your record: %d win(s), %d loss(es).\n", st.Wins, st.Losses)
			}
		}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	cli.RenderHelp(color.Output)
	if err := cli.Run(line, color.Output, ctrl, sessionKey); err != nil {
		line.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
