// Command browse is an interactive terminal listing over the configured
// catalog backend.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/controller"
	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/config"
	"github.com/light-bringer/catalog-listing/internal/pkg/logger"
	"github.com/light-bringer/catalog-listing/internal/services"
)

var (
	configPath = flag.String("config", os.Getenv("LISTING_CONFIG"), "Path to an optional YAML config file")
	category   = flag.String("category", "", "Category the listing opens on")
	search     = flag.String("q", "", "Search query the listing opens with")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "browse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// keep the terminal for the listing itself
	log, err := logger.New("warn", true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	svc, err := services.NewServiceOptions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	out := os.Stdout
	ctrl := controller.New(svc.Engine, domain.Seed{CategorySlug: *category, SearchQuery: *search},
		controller.WithLogger(log.Named("controller")),
		controller.WithMetrics(svc.Metrics),
		controller.WithCallbacks(controller.Callbacks{
			OnProductClick:  func(p domain.Product) { fmt.Fprintf(out, "-> opening %s (%s)\n", p.Name, p.ID) },
			OnAddToCart:     func(p domain.Product) { fmt.Fprintf(out, "-> added %s to cart\n", p.Name) },
			OnAddToWishlist: func(p domain.Product) { fmt.Fprintf(out, "-> added %s to wishlist\n", p.Name) },
		}),
	)

	return repl(ctx, newSession(ctrl, out), os.Stdin, log)
}

func repl(ctx context.Context, s *session, in io.Reader, log *zap.Logger) error {
	view, err := s.ctrl.Load(ctx)
	s.render(view)
	if err != nil {
		log.Warn("initial load failed", zap.Error(err))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := s.exec(ctx, scanner.Text())
		if quit {
			return nil
		}
		if err != nil && !errors.Is(err, controller.ErrSuperseded) {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
