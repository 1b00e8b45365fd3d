package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-spa-session/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: spasession <command> [args]

commands:
  login                 start a login at the identity provider
  callback <url>        complete a login with the URL (or #fragment) the provider redirected to
  status                show whether the stored session is valid
  scopes <scope>...     check that the session was granted every scope
  profile               fetch the user profile with the stored access token
  logout                clear the stored session
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("spasession failed")
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}

	c, err := config.Load(".env")
	if err != nil {
		return err
	}
	if c.GetEnv() == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, c, out)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("closing storage")
		}
	}()

	switch args[0] {
	case "login":
		displayAppname(out, c.GetAppName())
		return app.Login(ctx)
	case "callback":
		if len(args) < 2 {
			return errors.New("callback needs the redirect URL or fragment")
		}
		return app.Callback(ctx, args[1])
	case "status":
		return app.Status(ctx)
	case "scopes":
		return app.Scopes(ctx, args[1:])
	case "profile":
		return app.Profile(ctx)
	case "logout":
		return app.Logout(ctx)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func displayAppname(out io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(out, myFigure.String())
}
