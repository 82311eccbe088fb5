// Command twitchbot wires ircnet and ircbot into a running chat bot: it
// loads configuration, opens a connection pool for the configured channels,
// registers a couple of example commands, and runs until terminated.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Its-donkey/kappopher/internal/config"
	"github.com/Its-donkey/kappopher/ircbot"
	"github.com/Its-donkey/kappopher/ircnet"
)

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds := ircnet.Credentials{Login: cfg.Twitch.Login, Token: cfg.Twitch.Token}
	pool, err := ircnet.NewPool(ctx, ircnet.TwitchWebSocket, creds, cfg.Channels, log)
	if err != nil {
		log.WithError(err).Fatal("starting connection pool")
	}

	bot := ircbot.NewBot(pool, log, 0)

	bot.AddCommand(
		ircbot.CommandGuard{Prefix: "!", Names: []string{"ping"}},
		ircbot.Handler0[string](func(ctx *ircbot.CommandContext) string {
			return "pong"
		}),
	)

	bot.AddCommand(
		ircbot.CommandGuard{Prefix: "!", Names: []string{"hello"}},
		ircbot.Handler1[string, string]{
			Extract1: ircbot.Username,
			Fn: func(ctx *ircbot.CommandContext, user string) string {
				return "hello, " + user + "!"
			},
		},
	)

	if err := bot.Run(ctx); err != nil && err != context.Canceled {
		log.WithError(err).Error("bot exited with error")
		os.Exit(1)
	}
}
