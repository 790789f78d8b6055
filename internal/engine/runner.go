package engine

import (
	"context"
	"time"
)

// Runner drives an Engine on real timers: the periodic tick (accrual,
// expiry sweep, autosave), the self-rescheduling tax arrival and the
// pending tax countdown. All of them run from one goroutine and all of
// them are stopped when Run returns. There is no player to close the tax
// dialog, so every tick acknowledges a resolved event once the cooldown
// allows it; a lost tax is paid then and the next arrival can open.
type Runner struct {
	Engine        *Engine
	TickPeriod    time.Duration
	CountdownStep time.Duration
}

func (r *Runner) Run(ctx context.Context) error {
	period := r.TickPeriod
	if period <= 0 {
		period = time.Second
	}
	step := r.CountdownStep
	if step <= 0 {
		step = TaxCountdownStep
	}

	tick := time.NewTicker(period)
	defer tick.Stop()
	arrival := time.NewTimer(r.Engine.NextTaxDelay())
	defer arrival.Stop()

	var (
		countdown  *time.Ticker
		countdownC <-chan time.Time
		seq        uint64
	)
	stopCountdown := func() {
		if countdown != nil {
			countdown.Stop()
			countdown, countdownC = nil, nil
		}
	}
	defer stopCountdown()

	for {
		select {
		case <-ctx.Done():
			r.Engine.log.Debug("runner stopped", "err", ctx.Err())
			return ctx.Err()
		case <-tick.C:
			r.Engine.Tick(ctx)
			r.Engine.Acknowledge()
		case <-arrival.C:
			if r.Engine.FireTax() {
				stopCountdown()
				seq = r.Engine.Snapshot().Tax.Seq
				countdown = time.NewTicker(step)
				countdownC = countdown.C
			}
			arrival.Reset(r.Engine.NextTaxDelay())
		case <-countdownC:
			if !r.Engine.CountdownTick(seq) {
				stopCountdown()
			}
		}
	}
}
