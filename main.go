package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-engine/internal/config"
	"github.com/robalobadob/wordle/apps/go-engine/internal/events"
	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
	"github.com/robalobadob/wordle/apps/go-engine/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-engine/internal/store"
	"github.com/robalobadob/wordle/apps/go-engine/internal/term"
	"github.com/robalobadob/wordle/apps/go-engine/internal/words"
)

// localOwner is the profile the terminal host plays under.
const localOwner = "local"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wordle",
		Short:         "Five letters, six tries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newPlayCmd())
	root.AddCommand(newWordsCmd())
	return root
}

// setup loads configuration and configures the global logger.
func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return cfg, nil
}

func loadWords(cfg config.Config) (*words.List, error) {
	l, err := words.Load(words.Options{
		AnswersFile: cfg.AnswersFile,
		AllowedFile: cfg.AllowedFile,
		Salt:        cfg.DailySalt,
	})
	if err != nil {
		return nil, fmt.Errorf("load word lists: %w", err)
	}
	return l, nil
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP game server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			wl, err := loadWords(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := store.Open(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			pub, err := events.NewPublisher(cfg.KafkaBrokers)
			if err != nil {
				log.Warn().Err(err).Msg("kafka unavailable, events disabled")
				pub = events.Nop{}
			}
			defer pub.Close()

			srv := httpserver.New(cfg, httpserver.Deps{
				Words:    wl,
				Sessions: store.NewMemory(),
				DB:       db,
				Events:   pub,
			})
			a, g := wl.Stats()
			log.Info().Str("port", cfg.Port).Int("answers", a).Int("allowed", g).Msg("starting wordle server")
			return srv.Run(ctx, ":"+cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func newPlayCmd() *cobra.Command {
	var strict, dailyMode bool
	var date string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			wl, err := loadWords(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := store.Open(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			prefs, err := db.LoadSettings(ctx, localOwner)
			if err != nil {
				log.Warn().Err(err).Msg("load settings")
			}
			if !cmd.Flags().Changed("strict") {
				strict = prefs.StrictMode
			}

			mode := words.Random()
			switch {
			case date != "":
				mode = words.DateSeeded(date)
			case dailyMode:
				mode = words.Today()
			}

			sess := game.NewSession(wl,
				game.WithStrict(strict),
				game.WithRecorder(&store.StatsRecorder{DB: db, Owner: localOwner}),
			)
			p := term.NewPlayer(sess, cmd.InOrStdin(), cmd.OutOrStdout(), term.Options{
				Mode:    mode,
				Profile: db,
				Owner:   localOwner,
				Theme:   term.NewTheme(prefs.HighContrast),
			})
			return p.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "hard mode: revealed hints must be used (default: saved setting)")
	cmd.Flags().BoolVar(&dailyMode, "daily", false, "play today's word")
	cmd.Flags().StringVar(&date, "date", "", "play the word of a given day (YYYY-MM-DD)")
	return cmd
}

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "Show word list sizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			wl, err := loadWords(cfg)
			if err != nil {
				return err
			}
			a, g := wl.Stats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "answers=%d allowed=%d\n", a, g)
			return nil
		},
	}
}
