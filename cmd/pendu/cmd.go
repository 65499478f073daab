package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pendu/internal/config"
)

// options holds the peer's command-line configuration
type options struct {
	name         string
	difficulty   string
	signalingURL string
	listenAddr   string
	adversarial  bool
	joinTimeout  time.Duration
	dbPath       string
	verbose      bool

	// settings without flags, taken from the environment config
	advertiseHost string
	settleDelay   time.Duration
}

func (o *options) validate() error {
	if strings.TrimSpace(o.name) == "" {
		return fmt.Errorf("a player name is required (--name)")
	}
	if len(o.name) > 50 {
		return fmt.Errorf("player name must be at most 50 characters")
	}
	return nil
}

func newCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{
		advertiseHost: cfg.Peer.AdvertiseHost,
		settleDelay:   cfg.Peer.SettleDelay,
	}

	v := viper.New()
	v.SetEnvPrefix("PENDU")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "pendu",
		Short:         "Peer-to-peer multiplayer hangman over a signaling relay.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
	}

	hostCmd := &cobra.Command{
		Use:   "host",
		Short: "Create a room and wait for players to join.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return runHost(cmd.Context(), opts)
		},
	}

	joinCmd := &cobra.Command{
		Use:   "join <room-code>",
		Short: "Join an existing room by its code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return runJoin(cmd.Context(), opts, strings.ToUpper(strings.TrimSpace(args[0])))
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&opts.name, "name", "n", "", "player display name (env: PENDU_NAME)")
	fs.StringVarP(&opts.difficulty, "difficulty", "d", cfg.Game.Difficulty, "difficulty: easy, normal or hard (env: PENDU_DIFFICULTY)")
	fs.StringVar(&opts.signalingURL, "signaling-url", cfg.Peer.SignalingURL, "signaling relay base URL (env: PENDU_SIGNALING_URL)")
	fs.StringVar(&opts.listenAddr, "listen-addr", cfg.Peer.ListenAddr, "bind address for accepting peers when hosting (env: PENDU_LISTEN_ADDR)")
	fs.BoolVar(&opts.adversarial, "adversarial", false, "adversarial mode: the host picks the word (env: PENDU_ADVERSARIAL)")
	fs.DurationVar(&opts.joinTimeout, "join-timeout", cfg.Peer.JoinTimeout, "timeout for joining a room (env: PENDU_JOIN_TIMEOUT)")
	fs.StringVar(&opts.dbPath, "leaderboard", cfg.Game.LeaderboardPath, "path to the leaderboard database (env: PENDU_LEADERBOARD)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "display additional output (env: PENDU_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(hostCmd, joinCmd)
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("pendu v{{.Version}}\n")

	return cmd
}
