package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/KirkDiggler/taskguess/internal/handlers/ws"
	"github.com/KirkDiggler/taskguess/internal/services/session"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the process settings
type Config struct {
	bind string
	port int

	redisAddr     string
	redisPassword string
	redisDB       int
	resultsTTL    time.Duration

	guessWindow     time.Duration
	votingWindow    time.Duration
	reconnectGrace  time.Duration
	roundTransition time.Duration

	allowedOrigins []string
	commandRate    float64
	commandBurst   int

	logLevel  string
	logPretty bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}

	for name, d := range map[string]time.Duration{
		"guess-window":     c.guessWindow,
		"voting-window":    c.votingWindow,
		"reconnect-grace":  c.reconnectGrace,
		"round-transition": c.roundTransition,
	} {
		if d <= 0 {
			return fmt.Errorf("--%s must be positive", name)
		}
	}

	if c.redisDB < 0 {
		return errors.New("--redis-db cannot be negative")
	}

	return nil
}

// loadDotEnv loads a .env file when one exists. Variables already set in the
// environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TASKGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "taskguess",
		Short:   "Realtime server for the secret task guessing party game.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TASKGUESS_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 3002, "port to listen on (env: TASKGUESS_PORT)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address for finished game results, empty disables them (env: TASKGUESS_REDIS_ADDR)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: TASKGUESS_REDIS_PASSWORD)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database (env: TASKGUESS_REDIS_DB)")
	fs.DurationVar(&cfg.resultsTTL, "results-ttl", 30*24*time.Hour, "how long finished game results are kept, 0 keeps them forever (env: TASKGUESS_RESULTS_TTL)")
	fs.DurationVar(&cfg.guessWindow, "guess-window", session.DefaultGuessWindow, "time allowed for guesses (env: TASKGUESS_GUESS_WINDOW)")
	fs.DurationVar(&cfg.votingWindow, "voting-window", session.DefaultVotingWindow, "time allowed for votes (env: TASKGUESS_VOTING_WINDOW)")
	fs.DurationVar(&cfg.reconnectGrace, "reconnect-grace", session.DefaultReconnectGrace, "time a dropped player has to reconnect (env: TASKGUESS_RECONNECT_GRACE)")
	fs.DurationVar(&cfg.roundTransition, "round-transition", session.DefaultRoundTransition, "pause between scoring and the next round (env: TASKGUESS_ROUND_TRANSITION)")
	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", nil, "browser origins allowed to connect, empty allows any (env: TASKGUESS_ALLOWED_ORIGINS)")
	fs.Float64Var(&cfg.commandRate, "command-rate", ws.DefaultCommandRate, "commands per second allowed per connection (env: TASKGUESS_COMMAND_RATE)")
	fs.IntVar(&cfg.commandBurst, "command-burst", ws.DefaultCommandBurst, "commands a connection may send at once (env: TASKGUESS_COMMAND_BURST)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn or error (env: TASKGUESS_LOG_LEVEL)")
	fs.BoolVar(&cfg.logPretty, "log-pretty", false, "human readable logs (env: TASKGUESS_LOG_PRETTY)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
