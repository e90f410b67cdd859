// Command seed loads posts, tags, likes and comments from a YAML file.
//
//	seed -config config.yaml content.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lehmann314159/blog/internal/config"
	"github.com/lehmann314159/blog/internal/database"
	"github.com/lehmann314159/blog/internal/fixtures"
	"github.com/lehmann314159/blog/internal/logger"
	"github.com/lehmann314159/blog/internal/repository"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: seed [-config config.yaml] content.yaml")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	if err := run(context.Background(), cfg, flag.Arg(0)); err != nil {
		logger.Fatal("Seeding failed", logger.Err(err))
	}
}

func run(ctx context.Context, cfg *config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fixture, err := fixtures.Decode(f)
	if err != nil {
		return err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := fixtures.Apply(ctx, repository.New(db), fixture)
	if err != nil {
		return err
	}

	logger.Info("content loaded",
		logger.String("file", path),
		logger.Int("users", summary.Users),
		logger.Int("tags", summary.Tags),
		logger.Int("posts", summary.Posts),
		logger.Int("comments", summary.Comments))
	return nil
}
