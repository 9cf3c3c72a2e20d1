// internal/simulation/runner.go
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
)

// errHalt stops a mode loop once an undefined numeric result was recorded.
var errHalt = errors.New("run halted")

// Runner drives scenarios against fresh market makers.
type Runner struct {
	logger  *zap.Logger
	workers int
}

// NewRunner creates a runner. workers bounds RunAll's parallelism.
func NewRunner(logger *zap.Logger, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		logger:  logger.Named("simulation"),
		workers: workers,
	}
}

// Run executes one scenario on its own market maker. An undefined numeric
// result stops the run and is reported through Result.Halt, not as an error.
// Errors are returned for invalid scenarios and context cancellation.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	mm, err := curve.New(sc.Curve)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	runID := logger.NewRunID()
	log := logger.WithRun(r.logger, runID, sc.Name)

	res := &Result{
		RunID:    runID,
		Scenario: sc,
		Initial:  mm.State(),
		Started:  time.Now(),
		Steps:    make([]Step, 0, 2*sc.Orders),
		Trace:    make([]Point, 0, 2*sc.Orders),
	}
	res.Final = res.Initial

	log.Info("Run started",
		zap.String("mode", string(sc.Mode)),
		zap.Int("orders", sc.Orders),
		zap.Float64("order_size", sc.OrderSize),
		zap.Stringer("state", res.Initial))

	ex := &executor{mm: mm, res: res, logger: log}

	switch sc.Mode {
	case ModeRetrace:
		err = runRetrace(ctx, ex, sc)
	case ModeChained:
		err = runChained(ctx, ex, sc)
	case ModeCycles:
		err = runCycles(ctx, ex, sc)
	}
	res.Elapsed = time.Since(res.Started)

	if err != nil && !errors.Is(err, errHalt) {
		log.Warn("Run aborted", zap.Int("steps", len(res.Steps)), zap.Error(err))
		return res, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	log.Info("Run finished",
		zap.Int("steps", len(res.Steps)),
		zap.Bool("halted", res.Halted()),
		zap.Stringer("state", res.Final),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

// RunAll executes the scenarios in parallel, each on an independent market
// maker. Results keep the input order. The first error cancels the rest.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, sc := range scenarios {
		g.Go(func() error {
			res, err := r.Run(gCtx, sc)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runRetrace(ctx context.Context, ex *executor, sc Scenario) error {
	minted := make([]float64, 0, sc.Orders)
	for i := 0; i < sc.Orders; i++ {
		res, err := ex.buy(ctx, sc.OrderSize)
		if err != nil {
			return err
		}
		minted = append(minted, res.TokensOut)
	}

	for i := len(minted) - 1; i >= 0; i-- {
		if _, err := ex.sell(ctx, minted[i]); err != nil {
			return err
		}
	}
	return nil
}

func runChained(ctx context.Context, ex *executor, sc Scenario) error {
	quantity := sc.OrderSize
	for i := 0; i < sc.Orders; i++ {
		res, err := ex.buy(ctx, quantity)
		if err != nil {
			return err
		}
		quantity = res.TokensOut
	}

	for i := 0; i < sc.Orders; i++ {
		res, err := ex.sell(ctx, quantity)
		if err != nil {
			return err
		}
		quantity = res.ReserveOut
	}
	return nil
}

func runCycles(ctx context.Context, ex *executor, sc Scenario) error {
	for i := 0; i < sc.Orders; i++ {
		res, err := ex.buy(ctx, sc.OrderSize)
		if err != nil {
			return err
		}
		if _, err := ex.sell(ctx, res.TokensOut); err != nil {
			return err
		}
	}
	return nil
}

// executor applies orders to one market maker and records them.
type executor struct {
	mm     *curve.MarketMaker
	res    *Result
	logger *zap.Logger
}

func (e *executor) buy(ctx context.Context, reserveIn float64) (curve.BuyResult, error) {
	if err := ctx.Err(); err != nil {
		return curve.BuyResult{}, err
	}

	res := e.mm.Buy(reserveIn)
	if err := e.check(res.Err()); err != nil {
		return res, err
	}

	e.record(Step{
		Side:           SideBuy,
		Tokens:         res.TokensOut,
		Reserve:        res.ReserveIn,
		EffectivePrice: res.EffectivePrice,
	})
	return res, nil
}

func (e *executor) sell(ctx context.Context, tokensIn float64) (curve.SellResult, error) {
	if err := ctx.Err(); err != nil {
		return curve.SellResult{}, err
	}

	res := e.mm.Sell(tokensIn)
	if err := e.check(res.Err()); err != nil {
		return res, err
	}

	e.record(Step{
		Side:           SideSell,
		Tokens:         res.TokensIn,
		Reserve:        res.ReserveOut,
		EffectivePrice: res.EffectivePrice,
	})
	return res, nil
}

// check turns an undefined trade result or post-trade state into a halt.
func (e *executor) check(tradeErr error) error {
	err := tradeErr
	if err == nil {
		err = e.mm.State().Err()
	}
	if err == nil {
		return nil
	}

	var undefined *curve.UndefinedResultError
	if !errors.As(err, &undefined) {
		return err
	}

	e.res.Halt = undefined
	e.logger.Warn("Run halted on undefined numeric result",
		zap.Int("order", len(e.res.Steps)),
		zap.String("op", undefined.Op),
		zap.String("field", undefined.Field),
		zap.Stringer("state", e.mm.State()))
	return errHalt
}

func (e *executor) record(step Step) {
	step.Index = len(e.res.Steps)
	step.State = e.mm.State()

	e.res.Steps = append(e.res.Steps, step)
	e.res.Trace = append(e.res.Trace, Point{
		Supply: step.State.TokenSupply,
		Price:  step.State.TokenPrice,
	})
	e.res.Final = step.State

	e.logger.Debug("Order executed",
		zap.Int("index", step.Index),
		zap.String("side", string(step.Side)),
		zap.Float64("tokens", step.Tokens),
		zap.Float64("reserve", step.Reserve),
		zap.Float64("effective_price", step.EffectivePrice),
		zap.Float64("token_supply", step.State.TokenSupply),
		zap.Float64("reserve_balance", step.State.ReserveBalance))
}
