package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/sabawlabs/kudos/external/config"
	discordimpl "github.com/sabawlabs/kudos/external/discord"
	storeimpl "github.com/sabawlabs/kudos/external/store"
	"github.com/sabawlabs/kudos/internal/bot"
	"github.com/sabawlabs/kudos/internal/config"
	discordpkg "github.com/sabawlabs/kudos/internal/discord"
	"github.com/sabawlabs/kudos/internal/xp"
	"github.com/samber/do/v2"
)

const discordConnectTimeout = 20 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "database", cfg.UsesDatabase())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching bot")
	runBot(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	storeimpl.RegisterDI(injector)
	discordimpl.RegisterDI(injector)
	bot.RegisterDI(injector)
	xp.RegisterDI(injector)

	return injector
}

func runBot(injector do.Injector) {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}
	engine, err := do.Invoke[*xp.Engine](injector)
	if err != nil {
		slog.Error("failed to resolve xp engine", "error", err)
		os.Exit(1)
	}
	router, err := do.Invoke[*bot.Router](injector)
	if err != nil {
		slog.Error("failed to resolve command router", "error", err)
		os.Exit(1)
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer connectCancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(connectCtx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	botUserID, err := dc.GetBotUserID()
	if err != nil {
		slog.Error("failed to resolve bot user id", "error", err)
		os.Exit(1)
	}
	engine.SetBotUserID(botUserID)

	if err := dc.UpsertSlashCommands(bot.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err)
		os.Exit(1)
	}

	dc.RegisterMessageHandler(engine.HandleMessage)
	dc.RegisterReactionHandler(engine.HandleReaction)
	dc.RegisterVoiceStateUpdateHandler(engine.HandleVoiceState)
	dc.RegisterSlashCommandHandler(router.HandleSlashCommand)
	dc.RegisterMemberJoinHandler(router.HandleMemberJoin)
	dc.RegisterMemberLeaveHandler(router.HandleMemberLeave)
	dc.RegisterBoostHandler(router.HandleBoost)
	slog.Info("discord handlers registered")

	loadCtx, loadCancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	engine.Load(loadCtx)
	loadCancel()

	occupants, err := dc.ListVoiceOccupants()
	if err != nil {
		slog.Error("failed to list voice occupants", "error", err)
	} else {
		engine.ReconcileVoiceSessions(occupants)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		engine.Run(runCtx)
		close(engineDone)
	}()

	gatewayDone := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(gatewayDone)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-gatewayDone:
	}

	// Cancel the engine loop and wait for its final save to land.
	runCancel()
	<-engineDone
}
