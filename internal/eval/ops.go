// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/recipe"
	"nickandperla.net/chef/internal/token"
)

// opFunc is the signature for straight-line instructions.
type opFunc func(e *Evaluator, ins *recipe.Instruction) error

// getOp returns the implementation of op, or nil for opcodes handled by
// the run loop itself.
func getOp(op token.Token) opFunc {
	switch op {
	case token.TAKE:
		return opTake
	case token.PUT:
		return opPut
	case token.FOLD, token.STIR_INTO:
		return opReplaceTop
	case token.ADD, token.REMOVE, token.COMBINE, token.DIVIDE:
		return opArith
	case token.ADD_DRY:
		return opAddDry
	case token.LIQUEFY:
		return opLiquefy
	case token.LIQUEFY_BOWL:
		return opLiquefyBowl
	case token.STIR:
		return opStir
	case token.MIX:
		return opMix
	case token.CLEAN:
		return opClean
	case token.POUR:
		return opPour
	case token.REFRIGERATE:
		return opRefrigerate
	case token.SERVE_WITH:
		return opServeWith
	}
	return nil
}

func (e *Evaluator) ingredient(name string) (Item, error) {
	it, ok := e.table.Get(name)
	if !ok {
		return Item{}, fault.Newf(fault.Runtime, "ingredient not found: %s", name)
	}
	return it, nil
}

func opTake(e *Evaluator, ins *recipe.Instruction) error {
	if e.inputReader == nil {
		return fault.Newf(fault.Input, "no input to take %s from", ins.Ingredient)
	}
	line, err := e.inputReader("? ")
	if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
		return fault.Newf(fault.Input, "refrigerator is empty, cannot take %s", ins.Ingredient)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fault.Wrap(fault.Input, "reading input", err)
	}
	v, perr := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if perr != nil {
		return fault.Newf(fault.Input, "input %q for %s is not a number", strings.TrimSpace(line), ins.Ingredient)
	}
	e.table.SetValue(ins.Ingredient, v)
	return nil
}

func opPut(e *Evaluator, ins *recipe.Instruction) error {
	it, err := e.ingredient(ins.Ingredient)
	if err != nil {
		return err
	}
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	bowl.Push(it)
	return nil
}

// opReplaceTop discards the top of the bowl and puts the ingredient in
// its place.
func opReplaceTop(e *Evaluator, ins *recipe.Instruction) error {
	it, err := e.ingredient(ins.Ingredient)
	if err != nil {
		return err
	}
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	if _, ok := bowl.Pop(); !ok {
		return e.bowls.empty(ins.Bowl)
	}
	bowl.Push(it)
	return nil
}

func opArith(e *Evaluator, ins *recipe.Instruction) error {
	it, err := e.ingredient(ins.Ingredient)
	if err != nil {
		return err
	}
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	top, ok := bowl.Top()
	if !ok {
		return e.bowls.empty(ins.Bowl)
	}
	switch ins.Op {
	case token.ADD:
		top.Value += it.Value
	case token.REMOVE:
		top.Value -= it.Value
	case token.COMBINE:
		top.Value *= it.Value
	case token.DIVIDE:
		if it.Value == 0 {
			return fault.Newf(fault.Runtime, "cannot divide by %s, it is zero", ins.Ingredient)
		}
		top.Value /= it.Value
	}
	return nil
}

func opAddDry(e *Evaluator, ins *recipe.Instruction) error {
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	bowl.Push(Item{Name: "dry ingredients", Value: e.table.DrySum(), Kind: token.Dry})
	return nil
}

func opLiquefy(e *Evaluator, ins *recipe.Instruction) error {
	if !e.table.Liquefy(ins.Ingredient) {
		return fault.Newf(fault.Runtime, "ingredient not found: %s", ins.Ingredient)
	}
	return nil
}

func opLiquefyBowl(e *Evaluator, ins *recipe.Instruction) error {
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	for i := range *bowl {
		(*bowl)[i].Kind = token.Liquid
	}
	return nil
}

func opStir(e *Evaluator, ins *recipe.Instruction) error {
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	if !bowl.Roll(ins.N) {
		return e.bowls.empty(ins.Bowl)
	}
	return nil
}

func opMix(e *Evaluator, ins *recipe.Instruction) error {
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	s := *bowl
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if e.rand != nil {
		e.rand.Shuffle(len(s), swap)
	} else {
		rand.Shuffle(len(s), swap)
	}
	return nil
}

func opClean(e *Evaluator, ins *recipe.Instruction) error {
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	*bowl = nil
	return nil
}

// opPour copies the bowl onto the dish bottom first. The bowl keeps its
// contents.
func opPour(e *Evaluator, ins *recipe.Instruction) error {
	bowl, err := e.bowls.Get(ins.Bowl)
	if err != nil {
		return err
	}
	dish, err := e.dishes.Get(ins.Dish)
	if err != nil {
		return err
	}
	for _, it := range *bowl {
		dish.Push(it)
	}
	return nil
}

func opRefrigerate(e *Evaluator, ins *recipe.Instruction) error {
	e.halted = true
	return nil
}

func opServeWith(e *Evaluator, ins *recipe.Instruction) error {
	e.log.Warn("serving auxiliary recipes is not supported, skipping", "recipe", ins.Target, "line", ins.Line)
	return nil
}
