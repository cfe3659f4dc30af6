// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval executes parsed Chef recipes.
package eval

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/recipe"
	"nickandperla.net/chef/internal/token"
)

// InputReader reads one line of program input for Take.
type InputReader func(prompt string) (string, error)

// Evaluator holds the execution state of one recipe run. The recipe itself
// is shared and never written to.
type Evaluator struct {
	recipe    *recipe.Recipe
	table     *Table
	bowls     *Containers
	dishes    *Containers
	frames    []int // indices of open loop starts, innermost last
	pc        int
	steps     int
	stepLimit int
	halted    bool

	inputReader InputReader
	rand        *rand.Rand
	log         *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithInputReader sets the input reader for Take.
func WithInputReader(r InputReader) Option {
	return func(e *Evaluator) { e.inputReader = r }
}

// WithLogger sets the logger for step tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRand sets the source used by Mix. The default is the runtime's
// automatically seeded generator.
func WithRand(r *rand.Rand) Option {
	return func(e *Evaluator) { e.rand = r }
}

// WithSeed makes Mix deterministic.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithStepLimit stops runs after n instructions. Zero means no limit.
func WithStepLimit(n int) Option {
	return func(e *Evaluator) { e.stepLimit = n }
}

// New creates an Evaluator for r.
func New(r *recipe.Recipe, opts ...Option) *Evaluator {
	e := &Evaluator{
		recipe: r,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e
}

func (e *Evaluator) reset() {
	e.table = NewTable(e.recipe)
	e.bowls = newContainers("mixing bowl")
	e.dishes = newContainers("baking dish")
	e.frames = nil
	e.pc = 0
	e.steps = 0
	e.halted = false
}

// Run executes the method from the top with a fresh execution state. It
// returns nil when the method runs off its end or is refrigerated.
func (e *Evaluator) Run(ctx context.Context) error {
	e.reset()
	method := e.recipe.Method
	for e.pc < len(method) {
		if err := ctx.Err(); err != nil {
			return fault.Wrap(fault.Runtime, "cooking interrupted", err)
		}
		if e.stepLimit > 0 && e.steps >= e.stepLimit {
			return fault.Newf(fault.Runtime, "step limit of %d exceeded", e.stepLimit).In("method").At(method[e.pc].Line)
		}
		e.steps++

		ins := method[e.pc]
		e.log.Debug("step", "step", e.steps, "line", ins.Line, "op", ins.Op.String())
		next, err := e.step(ins)
		if err != nil {
			return located(err, ins.Line)
		}
		if e.halted {
			e.log.Info("halt", "reason", "refrigerate", "steps", e.steps)
			return nil
		}
		e.pc = next
	}
	e.log.Info("halt", "reason", "end", "steps", e.steps)
	return nil
}

// located attaches the method line to an error raised by an operation.
func located(err error, line int) error {
	if fe, ok := err.(*fault.Error); ok && fe.Line == 0 {
		return fe.In("method").At(line)
	}
	return err
}

// step executes one instruction and returns the index of the next.
func (e *Evaluator) step(ins *recipe.Instruction) (int, error) {
	switch ins.Op {
	case token.LOOP_START:
		return e.loopStart(ins)
	case token.LOOP_END:
		return e.loopEnd(ins)
	case token.SET_ASIDE:
		return e.setAside(ins)
	}
	op := getOp(ins.Op)
	if op == nil {
		return 0, fault.Newf(fault.Runtime, "cannot execute %s", ins.Op)
	}
	if err := op(e, ins); err != nil {
		return 0, err
	}
	return e.pc + 1, nil
}

func (e *Evaluator) loopValue(name string) (int64, error) {
	it, ok := e.table.Get(name)
	if !ok {
		return 0, fault.Newf(fault.Runtime, "ingredient not found: %s", name)
	}
	return it.Value, nil
}

// loopStart enters the loop body while the loop ingredient is non-zero.
func (e *Evaluator) loopStart(ins *recipe.Instruction) (int, error) {
	v, err := e.loopValue(ins.Ingredient)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return ins.Jump + 1, nil
	}
	e.frames = append(e.frames, e.pc)
	return e.pc + 1, nil
}

// loopEnd decrements its own ingredient, if any, then re-tests the loop
// start's ingredient.
func (e *Evaluator) loopEnd(ins *recipe.Instruction) (int, error) {
	if ins.Ingredient != "" {
		v, err := e.loopValue(ins.Ingredient)
		if err != nil {
			return 0, err
		}
		e.table.SetValue(ins.Ingredient, v-1)
	}
	start := e.recipe.Method[ins.Jump]
	v, err := e.loopValue(start.Ingredient)
	if err != nil {
		return 0, err
	}
	if v != 0 {
		return ins.Jump + 1, nil
	}
	e.popFrame(ins.Jump)
	return e.pc + 1, nil
}

// setAside leaves the innermost loop without decrementing.
func (e *Evaluator) setAside(ins *recipe.Instruction) (int, error) {
	e.popFrame(ins.Jump)
	return e.recipe.Method[ins.Jump].Jump + 1, nil
}

// popFrame closes the loop that starts at start and any loop opened
// inside it.
func (e *Evaluator) popFrame(start int) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i] == start {
			e.frames = e.frames[:i]
			return
		}
	}
}

// Table returns the run's ingredient table.
func (e *Evaluator) Table() *Table {
	return e.table
}

// Bowls returns the mixing bowls.
func (e *Evaluator) Bowls() *Containers {
	return e.bowls
}

// Dishes returns the baking dishes.
func (e *Evaluator) Dishes() *Containers {
	return e.dishes
}

// Steps returns how many instructions the last run executed.
func (e *Evaluator) Steps() int {
	return e.steps
}

// Depth returns the number of loops currently open.
func (e *Evaluator) Depth() int {
	return len(e.frames)
}
