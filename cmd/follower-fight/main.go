package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"

	"github.com/Jared747/follower-fight-project/internal/api"
	"github.com/Jared747/follower-fight-project/internal/constants"
	"github.com/Jared747/follower-fight-project/internal/engine"
	"github.com/Jared747/follower-fight-project/internal/ledger"
	"github.com/Jared747/follower-fight-project/internal/logging"
	"github.com/Jared747/follower-fight-project/internal/roster"
	"github.com/Jared747/follower-fight-project/internal/service"
	"github.com/Jared747/follower-fight-project/internal/version"
)

const (
	exitOK = iota
	exitFailure
	exitNothingToDo
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitFailure)
	}

	switch os.Args[1] {
	case "battle":
		os.Exit(cmdBattle(os.Args[2:]))
	case "revert":
		os.Exit(cmdRevert(os.Args[2:]))
	case "roster":
		os.Exit(cmdRoster(os.Args[2:]))
	case "serve":
		os.Exit(cmdServe(os.Args[2:]))
	case "version":
		fmt.Println(version.String())
		os.Exit(exitOK)
	case "help", "-h", "--help":
		usage()
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(exitFailure)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: follower-fight <command> [flags]

Commands:
  battle   run one fight, score it and emit a render plan
  revert   undo the most recent recorded run
  roster   force-refresh the cached follower roster
  serve    expose the read API and keep the roster fresh
  version  print build information

Run "follower-fight <command> -h" for command flags.`)
}

// cmdBattle runs a single fight to completion. The scoreboard and undo
// slot commit before rendering, so a render failure still exits zero.
func cmdBattle(args []string) int {
	fs := flag.NewFlagSet("battle", flag.ExitOnError)
	env := fs.String("env", "", "environment name (dev, prod, ...)")
	seed := fs.Int64("seed", time.Now().UnixNano(), "simulation seed, defaults to the current time")
	refresh := fs.Bool("refresh", false, "fetch the roster live instead of the cache")
	_ = fs.Parse(args)

	a, err := newApp(*env)
	if err != nil {
		logging.Error("startup failed", err, logging.Fields{constants.LogFieldEnv: *env})
		return exitFailure
	}

	forceRefresh := *refresh || a.settings.RefreshRoster
	outcome, err := a.runner().RunBattle(context.Background(), *seed, forceRefresh)
	if err != nil {
		if errors.Is(err, roster.ErrRosterUnavailable) || errors.Is(err, engine.ErrInsufficientParticipants) {
			logging.Warn("no fight to run", logging.Fields{
				constants.LogFieldEnv: a.settings.Env,
				"reason":              err.Error(),
			})
			return exitNothingToDo
		}
		logging.Error("battle failed", err, logging.Fields{constants.LogFieldEnv: a.settings.Env})
		return exitFailure
	}

	if outcome.RenderErr != nil {
		logging.Warn("run scored but render failed", logging.Fields{
			constants.LogFieldRunID: outcome.Result.RunID,
			"reason":                outcome.RenderErr.Error(),
		})
	}
	if outcome.Result.Draw {
		fmt.Printf("run %s: draw after %d rounds (seed %d)\n", outcome.Result.RunID, outcome.Result.Rounds, outcome.Result.Seed)
	} else {
		fmt.Printf("run %s: winner %s (seed %d)\n", outcome.Result.RunID, outcome.Result.Winner, outcome.Result.Seed)
	}
	if outcome.ArtifactRef != "" {
		fmt.Printf("render plan: %s\n", outcome.ArtifactRef)
	}
	return exitOK
}

func cmdRevert(args []string) int {
	fs := flag.NewFlagSet("revert", flag.ExitOnError)
	env := fs.String("env", "", "environment name (dev, prod, ...)")
	_ = fs.Parse(args)

	a, err := newApp(*env)
	if err != nil {
		logging.Error("startup failed", err, logging.Fields{constants.LogFieldEnv: *env})
		return exitFailure
	}

	rec, err := service.RevertLastRun(a.board, a.history)
	if err != nil {
		if errors.Is(err, ledger.ErrNoRunToRevert) {
			fmt.Println("nothing to revert")
			return exitNothingToDo
		}
		logging.Error("revert failed", err, logging.Fields{constants.LogFieldEnv: a.settings.Env})
		return exitFailure
	}

	fmt.Printf("reverted run %s (winner was %s)\n", rec.RunID, rec.Winner)
	return exitOK
}

func cmdRoster(args []string) int {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	env := fs.String("env", "", "environment name (dev, prod, ...)")
	_ = fs.Parse(args)

	a, err := newApp(*env)
	if err != nil {
		logging.Error("startup failed", err, logging.Fields{constants.LogFieldEnv: *env})
		return exitFailure
	}

	n, err := a.provider.Refresh(context.Background())
	if err != nil {
		logging.Error("roster refresh failed", err, logging.Fields{constants.LogFieldEnv: a.settings.Env})
		return exitFailure
	}

	fmt.Printf("roster refreshed: %d entries\n", n)
	return exitOK
}

// cmdServe runs the read API and a background job that keeps the roster
// cache inside its freshness window.
func cmdServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	env := fs.String("env", "", "environment name (dev, prod, ...)")
	addr := fs.String("addr", "", "listen address, overrides "+constants.EnvServerAddress)
	_ = fs.Parse(args)

	a, err := newApp(*env)
	if err != nil {
		logging.Error("startup failed", err, logging.Fields{constants.LogFieldEnv: *env})
		return exitFailure
	}

	listenAddr := a.settings.ServerAddress
	if *addr != "" {
		listenAddr = *addr
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logging.Error("scheduler setup failed", err, nil)
		return exitFailure
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(a.settings.RosterMaxAge),
		gocron.NewTask(func() {
			n, err := a.provider.Refresh(context.Background())
			if err != nil {
				logging.Warn("scheduled roster refresh failed", logging.Fields{"reason": err.Error()})
				return
			}
			logging.Info("roster refreshed", logging.Fields{"entries": n})
		}),
	)
	if err != nil {
		logging.Error("scheduler setup failed", err, nil)
		return exitFailure
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	router := gin.Default()
	api.NewHandler(a.board, a.history, a.repo).Register(router)

	logging.Info("server starting", logging.Fields{
		constants.LogFieldEnv:  a.settings.Env,
		constants.LogFieldAddr: listenAddr,
		"version":              version.String(),
	})
	if err := router.Run(listenAddr); err != nil {
		logging.Error("server stopped", err, logging.Fields{constants.LogFieldAddr: listenAddr})
		return exitFailure
	}
	return exitOK
}
