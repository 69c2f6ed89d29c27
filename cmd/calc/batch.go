package main

import (
	"context"
	"errors"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/calcengine"
	"github.com/zephyrtronium/calcengine/internal/logging"
)

// batch evaluates raw calculator inputs in a shared context.
type batch struct {
	ctx        *calcengine.Context
	dec, group string
	log        *logging.Logger
}

// result is the outcome of one input.
type result struct {
	raw       string
	canonical string
	expr      *calcengine.Expr
	val       *big.Float
	err       error
}

// display renders the result as the calculator shows it.
func (r *result) display(digits int) string {
	switch {
	case r.err == nil:
		return calcengine.Format(r.val, digits)
	case errors.Is(r.err, calcengine.Infinity):
		return "∞"
	default:
		return r.err.Error()
	}
}

// run evaluates inputs with at most workers evaluations at once. Results are
// in input order. Evaluation failures are reported per result; the returned
// error is only non-nil if ctx is canceled.
func (b *batch) run(ctx context.Context, inputs []string, workers int) ([]result, error) {
	res := make([]result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, raw := range inputs {
		i, raw := i, raw
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res[i] = b.one(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *batch) one(raw string) result {
	start := time.Now()
	r := result{raw: raw, canonical: calcengine.Normalize(raw, b.dec, b.group)}
	r.expr, r.err = b.ctx.Parse(r.canonical)
	if r.err == nil {
		r.val, r.err = b.ctx.Eval(r.expr)
	}
	b.log.Evaluation(raw, r.canonical, time.Since(start), r.err)
	return r
}
