package main

import (
	"fmt"
	"os"

	"fandomapp/internal/config"
	"fandomapp/internal/database"
	"fandomapp/internal/logger"
	"fandomapp/internal/seed"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	var (
		cfg *config.Config
		log *zap.Logger
	)

	cliApp := &cli.App{
		Name:  "fandomapp",
		Usage: "fandom community site",
		Before: func(c *cli.Context) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			if log, err = logger.New(cfg.Env, cfg.LogLevel); err != nil {
				return err
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if log != nil {
				_ = log.Sync()
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return serve(c, cfg, log)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(c *cli.Context) error {
					return serve(c, cfg, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update the database schema and exit",
				Action: func(c *cli.Context) error {
					db, err := database.Initialize(cfg, log.Named("db"))
					if err != nil {
						return err
					}
					closeDB(db)
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "fill the database with demo members and content",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "users", Value: 10, Usage: "number of members to create"},
					&cli.IntFlag{Name: "per-user", Value: 3, Usage: "posts, discussions and fanfics per member"},
					&cli.Int64Flag{Name: "seed", Usage: "random seed for reproducible data"},
				},
				Action: func(c *cli.Context) error {
					db, err := database.Initialize(cfg, log.Named("db"))
					if err != nil {
						return err
					}
					defer closeDB(db)

					res, err := seed.Run(c.Context, db, seed.Options{
						Users:   c.Int("users"),
						PerUser: c.Int("per-user"),
						Seed:    c.Int64("seed"),
					}, log.Named("seed"))
					if err != nil {
						return fmt.Errorf("seed: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "created %d users, %d posts, %d discussions, %d comments, %d fanfics, %d likes (password %q)\n",
						res.Users, res.Posts, res.Discussions, res.Comments, res.Fanfics, res.Likes, seed.DefaultPassword)
					return nil
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		if log != nil {
			log.Fatal("command failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context, cfg *config.Config, log *zap.Logger) error {
	app, err := NewApp(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()
	return runServer(c.Context, app)
}
