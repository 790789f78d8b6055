// Package advisor suggests the next move for a player, either with a
// simple greedy rule or by asking Gemini.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ozsumit/csf-pwa/internal/engine"
	"github.com/Ozsumit/csf-pwa/internal/models"
	"gopkg.in/yaml.v3"
)

type Action string

const (
	ActionDonate      Action = "donate"
	ActionBuyAuto     Action = "buy_auto"
	ActionBuyUpgrade  Action = "buy_upgrade"
	ActionBuyItem     Action = "buy_item"
	ActionPrevent     Action = "prevent"
	ActionAcknowledge Action = "acknowledge"
)

type Suggestion struct {
	Action Action        `yaml:"action"`
	Item   models.ItemID `yaml:"item,omitempty"`
	Reason string        `yaml:"reason"`
}

func (s Suggestion) Validate() error {
	switch s.Action {
	case ActionDonate, ActionBuyAuto, ActionBuyUpgrade, ActionPrevent, ActionAcknowledge:
		return nil
	case ActionBuyItem:
		if _, ok := models.CatalogItem(s.Item); !ok {
			return fmt.Errorf("unknown item %q", s.Item)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
}

func (s Suggestion) String() string {
	if s.Action == ActionBuyItem {
		return fmt.Sprintf("%s %s: %s", s.Action, s.Item, s.Reason)
	}
	return fmt.Sprintf("%s: %s", s.Action, s.Reason)
}

// Strategy picks a move for the given snapshot.
type Strategy interface {
	Suggest(ctx context.Context, snap engine.Snapshot) (Suggestion, error)
}

// Apply performs s on eng and reports whether the engine accepted it.
func Apply(eng *engine.Engine, s Suggestion) bool {
	switch s.Action {
	case ActionDonate:
		eng.Click()
		return true
	case ActionBuyAuto:
		return eng.PurchaseAutoClicker()
	case ActionBuyUpgrade:
		return eng.PurchaseUpgrade()
	case ActionBuyItem:
		return eng.PurchaseSpecialItem(s.Item)
	case ActionPrevent:
		return eng.PreventClick()
	case ActionAcknowledge:
		_, ok := eng.Acknowledge()
		return ok
	default:
		return false
	}
}

// Greedy handles the tax dialog first, then buys whichever of upgrade and
// auto-clicker is cheaper, then cheap buffs, and otherwise donates.
type Greedy struct{}

func (Greedy) Suggest(_ context.Context, snap engine.Snapshot) (Suggestion, error) {
	s := snap.State
	switch snap.Tax.Phase {
	case engine.TaxPending:
		return Suggestion{Action: ActionPrevent, Reason: "fight the tax"}, nil
	case engine.TaxResolved:
		if !snap.Now.Before(snap.AckReadyAt) {
			return Suggestion{Action: ActionAcknowledge, Reason: "close the tax dialog"}, nil
		}
	}

	if s.UpgradeCost <= s.AutoCost && s.Currency >= s.UpgradeCost {
		return Suggestion{Action: ActionBuyUpgrade, Reason: "upgrade is the cheaper buy"}, nil
	}
	if s.Currency >= s.AutoCost {
		return Suggestion{Action: ActionBuyAuto, Reason: "auto-clicker is the cheaper buy"}, nil
	}
	for _, it := range s.SpecialItems {
		if _, active := snap.Active(it.ID); active {
			continue
		}
		// only splurge when the buff is small change
		if s.Currency >= it.Cost*10 {
			return Suggestion{Action: ActionBuyItem, Item: it.ID, Reason: "buff is cheap relative to savings"}, nil
		}
	}
	return Suggestion{Action: ActionDonate, Reason: "nothing affordable"}, nil
}

// parseSuggestion reads a YAML answer, tolerating a markdown code fence.
func parseSuggestion(text string) (Suggestion, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var s Suggestion
	if err := yaml.Unmarshal([]byte(clean), &s); err != nil {
		return Suggestion{}, fmt.Errorf("failed to parse suggestion YAML: %w\nOutput was: %s", err, clean)
	}
	s.Action = Action(strings.ToLower(strings.TrimSpace(string(s.Action))))
	if err := s.Validate(); err != nil {
		return Suggestion{}, err
	}
	return s, nil
}
