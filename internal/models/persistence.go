package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ozsumit/csf-pwa/internal/storage"
	"gopkg.in/yaml.v3"
)

// SaveKey is the slot the game is stored under.
const SaveKey = "donationClickerState7"

// EffectsKey is the slot holding the running buffs. Activation changes the
// saved state, so the buffs are saved too and undone after a restart.
const EffectsKey = "donationClickerEffects7"

// EffectRecord is a running buff as stored under EffectsKey. The deltas are
// what activation added to clickPower and autoRate.
type EffectRecord struct {
	ID         ItemID    `json:"id" yaml:"id"`
	ExpiresAt  time.Time `json:"expiresAt" yaml:"expiresAt"`
	ClickDelta float64   `json:"clickDelta,omitempty" yaml:"clickDelta,omitempty"`
	AutoDelta  float64   `json:"autoDelta,omitempty" yaml:"autoDelta,omitempty"`
}

// Encode serializes s into the stored JSON form.
func Encode(s *EconomyState) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a stored value and reconciles it with the catalogs.
func Decode(data []byte) (*EconomyState, error) {
	var s EconomyState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	s.Normalize()
	return &s, nil
}

// EncodeYAML renders s for humans, e.g. `game -dump`.
func EncodeYAML(s *EconomyState) ([]byte, error) {
	return yaml.Marshal(s)
}

// Slot is the subset of storage.Store the gateway needs.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Gateway moves EconomyState in and out of its storage slot, and the
// running buffs in and out of theirs.
type Gateway struct {
	slot       Slot
	key        string
	effectsKey string
	log        *slog.Logger
}

func NewGateway(slot Slot, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{slot: slot, key: SaveKey, effectsKey: EffectsKey, log: logger}
}

// Load returns the saved game, or a fresh one if nothing usable is stored.
// It never fails: a corrupt or unreadable slot is logged and ignored.
func (g *Gateway) Load(ctx context.Context) *EconomyState {
	data, err := g.slot.Get(ctx, g.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Warn("read saved game", "key", g.key, "err", err)
		}
		return NewState()
	}
	s, err := Decode(data)
	if err != nil {
		g.log.Warn("discarding corrupt save", "key", g.key, "err", err)
		return NewState()
	}
	return s
}

func (g *Gateway) Save(ctx context.Context, s *EconomyState) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := g.slot.Put(ctx, g.key, data); err != nil {
		return fmt.Errorf("write %s: %w", g.key, err)
	}
	return nil
}

// LoadEffects returns the saved buffs. Like Load it never fails; an
// unusable slot means no buffs are running.
func (g *Gateway) LoadEffects(ctx context.Context) []EffectRecord {
	data, err := g.slot.Get(ctx, g.effectsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Warn("read saved effects", "key", g.effectsKey, "err", err)
		}
		return nil
	}
	var recs []EffectRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		g.log.Warn("discarding corrupt effects", "key", g.effectsKey, "err", err)
		return nil
	}
	return recs
}

func (g *Gateway) SaveEffects(ctx context.Context, recs []EffectRecord) error {
	if recs == nil {
		recs = []EffectRecord{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	if err := g.slot.Put(ctx, g.effectsKey, data); err != nil {
		return fmt.Errorf("write %s: %w", g.effectsKey, err)
	}
	return nil
}

// Clear removes both slots. A missing slot is not an error.
func (g *Gateway) Clear(ctx context.Context) error {
	for _, key := range []string{g.key, g.effectsKey} {
		if err := g.slot.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
