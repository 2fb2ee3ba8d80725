// Command hubctl signs in to the support hub API from a terminal. The
// session is mirrored to Redis so that consecutive invocations share it
// until the token expires or the inactivity window runs out.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/supportinsights/hub/internal/infrastructure/db/redis"
	"github.com/supportinsights/hub/internal/session"
	"github.com/supportinsights/hub/pkg/logger"
)

type options struct {
	server     string
	redisAddr  string
	redisDB    int
	namespace  string
	email      string
	password   string
	inactivity time.Duration
	verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	_ = godotenv.Load()

	var opts options
	flagSet := pflag.NewFlagSet("hubctl", pflag.ContinueOnError)
	flagSet.StringVar(&opts.server, "server", envOr("HUB_SERVER", "http://localhost:8080"), "support hub API base URL")
	flagSet.StringVar(&opts.redisAddr, "redis-addr", envOr("REDIS_ADDR", "localhost:6379"), "Redis address holding the session mirror")
	flagSet.IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	flagSet.StringVar(&opts.namespace, "namespace", envOr("USER", "default"), "session namespace inside Redis")
	flagSet.StringVarP(&opts.email, "email", "e", "", "account email (login)")
	flagSet.StringVarP(&opts.password, "password", "p", os.Getenv("HUB_PASSWORD"), "account password (login)")
	flagSet.DurationVar(&opts.inactivity, "inactivity", session.DefaultInactivityTimeout, "inactivity window")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log session events to stderr")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hubctl [flags] login|status|logout\n\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return errors.New("expected exactly one command")
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Level: level, Pretty: true, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: opts.redisAddr, DB: opts.redisDB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	store := redis.NewSessionStore(rdb, opts.namespace, 0)
	client, err := session.New(
		session.NewHTTPAuthAPI(opts.server, &http.Client{Timeout: 15 * time.Second}),
		session.WithStorage(store),
		session.WithRestorePolicy(session.RestoreUnexpired),
		session.WithInactivityTimeout(opts.inactivity),
		session.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	return dispatch(ctx, flagSet.Arg(0), client, opts, out, log)
}

func dispatch(ctx context.Context, cmd string, client *session.Client, opts options, out io.Writer, log zerolog.Logger) error {
	switch cmd {
	case "login":
		if opts.email == "" || opts.password == "" {
			return errors.New("login needs --email and --password")
		}
		res := client.Login(ctx, opts.email, opts.password)
		if !res.Success {
			return errors.New(res.Error)
		}
		user, _ := client.Identity()
		fmt.Fprintf(out, "logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)

	case "status":
		user, ok := client.Identity()
		if !ok {
			if notice := session.LogoutNotice(client.ConsumeLogoutReason()); notice != "" {
				fmt.Fprintln(out, notice)
				return nil
			}
			fmt.Fprintln(out, "not logged in")
			return nil
		}
		// Asking for status counts as activity.
		client.Touch(session.KeyDown)
		fmt.Fprintf(out, "logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)

	case "logout":
		client.Logout()
		fmt.Fprintln(out, "logged out")

	default:
		log.Debug().Str("command", cmd).Msg("unknown command")
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
