package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/advisor"
	"github.com/Ozsumit/csf-pwa/internal/config"
	"github.com/Ozsumit/csf-pwa/internal/engine"
	"github.com/Ozsumit/csf-pwa/internal/models"
)

func main() {
	var (
		seconds = flag.Int("seconds", 300, "simulated seconds to play")
		cps     = flag.Int("cps", 5, "donate clicks per simulated second")
		seed    = flag.Uint64("seed", 1, "random seed")
		greedy  = flag.Bool("greedy", false, "use the greedy strategy even if a Gemini key is set")
	)
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var strategy advisor.Strategy = advisor.Greedy{}
	if cfg.AdvisorEnabled() && !*greedy {
		g, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini advisor: %v", err)
		}
		defer g.Close()
		strategy = g
		fmt.Println("Strategy: gemini")
	} else {
		fmt.Println("Strategy: greedy")
	}

	counts := map[engine.EventKind]int{}
	clock := engine.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	eng := engine.New(nil,
		engine.WithClock(clock),
		engine.WithRand(engine.NewRand(*seed)),
		engine.WithNotifier(engine.NotifierFunc(func(ev engine.Event) {
			counts[ev.Kind]++
			switch ev.Kind {
			case engine.EventAchievementUnlocked:
				fmt.Printf("  [%s] achievement: %s\n", clock.Now().Format("15:04:05"), ev.Achievement.Name)
			case engine.EventTaxAcknowledged:
				fmt.Printf("  [%s] tax closed: %s, paid %.0f\n", clock.Now().Format("15:04:05"), ev.Tax.Outcome, ev.Paid)
			}
		})))

	nextTax := clock.Now().Add(eng.NextTaxDelay())
	for sec := 1; sec <= *seconds; sec++ {
		s, err := strategy.Suggest(ctx, eng.Snapshot())
		if err != nil {
			fmt.Printf("  advisor error, donating instead: %v\n", err)
			s = advisor.Suggestion{Action: advisor.ActionDonate}
		}
		advisor.Apply(eng, s)

		for range *cps {
			eng.Click()
		}

		clock.Advance(time.Second)
		eng.Tick(ctx)
		eng.Acknowledge()
		if !clock.Now().Before(nextTax) {
			eng.FireTax()
			nextTax = clock.Now().Add(eng.NextTaxDelay())
		}
		if tax := eng.Snapshot().Tax; tax.Phase == engine.TaxPending {
			eng.CountdownTick(tax.Seq)
		}

		if sec%60 == 0 {
			snap := eng.Snapshot()
			fmt.Printf("--- %d s: coins=%.0f click=%.2f auto=%.2f/s achievements=%d ---\n",
				sec, snap.State.Currency, engine.ClickGain(snap.State), engine.AutoGain(snap.State), snap.State.UnlockedCount())
		}
	}

	fmt.Println("\n--- Final state ---")
	out, err := models.EncodeYAML(eng.Snapshot().State)
	if err != nil {
		log.Fatalf("Failed to encode state: %v", err)
	}
	fmt.Print(string(out))
	fmt.Printf("\nEvents: %v\n", counts)
}
