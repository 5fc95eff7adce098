package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	handSize       int
	maxPlayers     int
	minPlayers     int
	playerTimeout  time.Duration
	port           int
	prefix         string
	profile        bool
	roundsToWin    int
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	turnDuration   time.Duration
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.handSize < 1 {
		return fmt.Errorf("invalid hand size (must be at least 1): %d", c.handSize)
	}
	if c.roundsToWin < 1 {
		return fmt.Errorf("invalid rounds to win (must be at least 1): %d", c.roundsToWin)
	}
	if c.minPlayers < 2 {
		return fmt.Errorf("invalid minimum player count (must be at least 2): %d", c.minPlayers)
	}
	if c.maxPlayers < c.minPlayers || c.maxPlayers > 8 {
		return fmt.Errorf("invalid maximum player count (must be between %d-8 inclusive): %d", c.minPlayers, c.maxPlayers)
	}
	if c.turnDuration < time.Second {
		return fmt.Errorf("invalid turn duration (must be at least 1s): %s", c.turnDuration)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// rules converts the configured tunables into the game rule set.
func (c *Config) rules() GameRules {
	return GameRules{
		HandSize:     c.handSize,
		TurnDuration: int(c.turnDuration / time.Second),
		RoundsToWin:  c.roundsToWin,
		MinPlayers:   c.minPlayers,
		MaxPlayers:   c.maxPlayers,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CRACKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "cracklist",
		Short:         "A host-authoritative room server for the Crack List card game, played over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CRACKLIST_BIND)")
	fs.IntVar(&cfg.handSize, "hand-size", 8, "cards dealt to each player at the start of a round (env: CRACKLIST_HAND_SIZE)")
	fs.IntVar(&cfg.maxPlayers, "max-players", 8, "maximum players per room (env: CRACKLIST_MAX_PLAYERS)")
	fs.IntVar(&cfg.minPlayers, "min-players", 2, "minimum players needed to start a game (env: CRACKLIST_MIN_PLAYERS)")
	fs.DurationVar(&cfg.playerTimeout, "player-timeout", 10*time.Minute, "time before disconnected players are removed (env: CRACKLIST_PLAYER_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: CRACKLIST_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: CRACKLIST_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: CRACKLIST_PROFILE)")
	fs.IntVar(&cfg.roundsToWin, "rounds-to-win", 3, "round wins needed to win the game (env: CRACKLIST_ROUNDS_TO_WIN)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle rooms are closed (env: CRACKLIST_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: CRACKLIST_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: CRACKLIST_TLS_KEY)")
	fs.DurationVar(&cfg.turnDuration, "turn-duration", 20*time.Second, "time each player has to act before a draw is forced (env: CRACKLIST_TURN_DURATION)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CRACKLIST_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CRACKLIST_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("cracklist v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
