package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"mnav-tracker/internal/service"
	"mnav-tracker/internal/signal"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(nav *service.NavService, signals *signal.Engine) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/mnav", func(c tele.Context) error {
		snap := nav.Read(context.Background())
		msg := fmt.Sprintf(
			"MSTR mNAV: %.2fx\nSource: %s\nFetched: %s",
			snap.Value, snap.Source, snap.FetchedAt.Format("2006-01-02 15:04 UTC"),
		)
		if snap.IsFallback {
			msg += "\n(stale fallback value)"
		}
		return c.Send(msg)
	})

	b.Handle("/signal", func(c tele.Context) error {
		snap := nav.Read(context.Background())
		report := signals.Generate(context.Background(), snap.Value)
		msg := fmt.Sprintf(
			"Signal: %s\nScore: %.2f/10\nConfidence: %.1f%%\nmNAV: %.2fx\n\n%s",
			report.Signal, report.Score, report.Confidence, report.CurrentMNAV, report.Recommendation,
		)
		return c.Send(msg)
	})

	log.Println("Telegram bot started")
	go b.Start()
}
