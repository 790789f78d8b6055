package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Ozsumit/csf-pwa/internal/app"
	"github.com/Ozsumit/csf-pwa/internal/config"
	"github.com/Ozsumit/csf-pwa/internal/engine"
	"github.com/Ozsumit/csf-pwa/internal/models"
	"github.com/Ozsumit/csf-pwa/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a yaml config file")
		dump       = flag.Bool("dump", false, "print the saved game as YAML and exit")
		reset      = flag.Bool("reset", false, "erase the saved game (requires -yes)")
		yes        = flag.Bool("yes", false, "confirm -reset")
		headless   = flag.Bool("headless", false, "run the economy without a UI until interrupted")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *dump:
		err = dumpSave(ctx, cfg)
	case *reset:
		if !*yes {
			fmt.Println("Refusing to reset without -yes.")
			os.Exit(2)
		}
		err = resetSave(ctx, cfg)
	case *headless:
		err = runHeadless(ctx, cfg)
	default:
		err = tui.StartWith(ctx, cfg)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// dumpSave and resetSave work on the store directly; an App would write
// the game back when closed.
func dumpSave(ctx context.Context, cfg *config.Config) error {
	store, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	out, err := models.EncodeYAML(models.NewGateway(store, nil).Load(ctx))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func resetSave(ctx context.Context, cfg *config.Config) error {
	store, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := models.NewGateway(store, nil).Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Saved game erased.")
	return nil
}

func runHeadless(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	r := &engine.Runner{Engine: a.Engine, TickPeriod: cfg.TickPeriod}
	fmt.Println("Running headless, press Ctrl+C to stop.")
	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Printf("Coins: %.0f\n", a.Engine.Snapshot().State.Currency)
	return nil
}
