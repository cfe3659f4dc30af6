// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package recipe

import (
	"regexp"
	"strconv"
	"strings"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/token"
)

const (
	bowlRef = `(?:the )?(?:(` + token.OrdinalPattern + `) )?mixing bowl`
	dishRef = `(?:the )?(?:(` + token.OrdinalPattern + `) )?baking dish`
)

// operands names what each capture group of a pattern holds.
type operand int

const (
	ingredient operand = iota
	bowl
	dish
	count
	target
)

type pattern struct {
	op       token.Token
	re       *regexp.Regexp
	operands []operand
}

func pat(op token.Token, expr string, operands ...operand) pattern {
	return pattern{op: op, re: regexp.MustCompile("^" + expr + "$"), operands: operands}
}

// patterns lists, per leading verb, the accepted sentence shapes. The
// first match wins, so more specific shapes come first.
var patterns = map[string][]pattern{
	"Take": {
		pat(token.TAKE, `Take (.+?) from (?:the )?refrigerator`, ingredient),
	},
	"Put": {
		pat(token.PUT, `Put (.+?) into `+bowlRef, ingredient, bowl),
	},
	"Fold": {
		pat(token.FOLD, `Fold (.+?) into `+bowlRef, ingredient, bowl),
	},
	"Add": {
		pat(token.ADD_DRY, `Add dry ingredients(?: to `+bowlRef+`)?`, bowl),
		pat(token.ADD, `Add (.+?)(?: to `+bowlRef+`)?`, ingredient, bowl),
	},
	"Remove": {
		pat(token.REMOVE, `Remove (.+?)(?: from `+bowlRef+`)?`, ingredient, bowl),
	},
	"Combine": {
		pat(token.COMBINE, `Combine (.+?)(?: into `+bowlRef+`)?`, ingredient, bowl),
	},
	"Divide": {
		pat(token.DIVIDE, `Divide (.+?)(?: (?:into|to) `+bowlRef+`)?`, ingredient, bowl),
	},
	"Liquefy": {
		pat(token.LIQUEFY_BOWL, `Liquefy contents of `+bowlRef, bowl),
		pat(token.LIQUEFY, `Liquefy (.+?)`, ingredient),
	},
	"Liquify": {
		pat(token.LIQUEFY_BOWL, `Liquify contents of `+bowlRef, bowl),
		pat(token.LIQUEFY, `Liquify (.+?)`, ingredient),
	},
	"Stir": {
		pat(token.STIR, `Stir(?: `+bowlRef+`)? for (\d+) minutes?`, bowl, count),
		pat(token.STIR_INTO, `Stir (.+?) into `+bowlRef, ingredient, bowl),
	},
	"Mix": {
		pat(token.MIX, `Mix(?: `+bowlRef+`)? well`, bowl),
	},
	"Clean": {
		pat(token.CLEAN, `Clean `+bowlRef, bowl),
	},
	"Pour": {
		pat(token.POUR, `Pour contents of `+bowlRef+` into `+dishRef, bowl, dish),
	},
	"Refrigerate": {
		pat(token.REFRIGERATE, `Refrigerate(?: for (\d+) hours?)?`, count),
	},
	"Set": {
		pat(token.SET_ASIDE, `Set aside`),
	},
	"Serve": {
		pat(token.SERVE_WITH, `Serve with (.+?)`, target),
	},
}

var (
	loopEnd   = regexp.MustCompile(`^(\S+)(?: the (.+?))? until (\S+)$`)
	loopStart = regexp.MustCompile(`^(\S+) the (.+?)$`)
)

type sentence struct {
	text string
	line int
}

// splitSentences breaks a method body into sentences ending in a period
// followed by whitespace or the end of text. Runs of whitespace inside a
// sentence collapse to one space.
func splitSentences(text string, line int) []sentence {
	var out []sentence
	var sb strings.Builder
	start := line
	flush := func() {
		if s := strings.Join(strings.Fields(sb.String()), " "); s != "" {
			out = append(out, sentence{text: s, line: start})
		}
		sb.Reset()
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if sb.Len() == 0 && (c == ' ' || c == '\t' || c == '\n') {
			if c == '\n' {
				line++
			}
			continue
		}
		if sb.Len() == 0 {
			start = line
		}
		if c == '.' && (i+1 == len(text) || isSpace(text[i+1])) {
			flush()
			continue
		}
		if c == '\n' {
			line++
		}
		sb.WriteByte(c)
	}
	flush()
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseMethod compiles the method body into r.Method and pairs the loop
// brackets.
func parseMethod(r *Recipe, text string, line int) error {
	for _, s := range splitSentences(text, line) {
		ins, err := parseInstruction(s.text)
		if err != nil {
			return err.In("method").At(s.line)
		}
		ins.Line = s.line
		ins.Text = s.text
		if ins.Op.UsesIngredient() {
			if _, ok := r.Ingredient(ins.Ingredient); !ok {
				return fault.Newf(fault.Format, "ingredient not found: %s", ins.Ingredient).In("method").At(s.line)
			}
		}
		r.Method = append(r.Method, ins)
	}
	return linkLoops(r.Method)
}

func parseInstruction(s string) (*Instruction, *fault.Error) {
	verb, _, _ := strings.Cut(s, " ")
	if token.Verbs[verb] {
		for _, p := range patterns[verb] {
			m := p.re.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			return capture(p, m[1:])
		}
		return nil, fault.Newf(fault.Format, "malformed %q instruction: %s", verb, s)
	}

	if m := loopEnd.FindStringSubmatch(s); m != nil {
		return &Instruction{Op: token.LOOP_END, Verb: m[1], Ingredient: m[2]}, nil
	}
	if m := loopStart.FindStringSubmatch(s); m != nil {
		return &Instruction{Op: token.LOOP_START, Verb: m[1], Ingredient: m[2]}, nil
	}
	return nil, fault.Newf(fault.Format, "unknown instruction: %s", s)
}

func capture(p pattern, groups []string) (*Instruction, *fault.Error) {
	ins := &Instruction{Op: p.op}
	for i, kind := range p.operands {
		g := groups[i]
		switch kind {
		case ingredient:
			ins.Ingredient = g
		case bowl, dish:
			n, ok := token.Ordinal(g)
			if !ok {
				return nil, fault.Newf(fault.Format, "bad container number %q", g)
			}
			if n > token.MaxContainers {
				return nil, fault.Newf(fault.Format, "container number %d is too large, at most %d are allowed", n, token.MaxContainers)
			}
			if kind == bowl {
				ins.Bowl = n
			} else {
				ins.Dish = n
			}
		case count:
			if g == "" {
				continue
			}
			n, err := strconv.Atoi(g)
			if err != nil {
				return nil, fault.Newf(fault.Format, "bad count %q", g)
			}
			ins.N = n
			ins.HasN = true
		case target:
			ins.Target = g
		}
	}
	return ins, nil
}

// linkLoops pairs every loop start with its end and points each Set aside
// at its innermost loop.
func linkLoops(method []*Instruction) error {
	var open []int
	for i, ins := range method {
		switch ins.Op {
		case token.LOOP_START:
			open = append(open, i)
		case token.LOOP_END:
			if len(open) == 0 {
				return fault.Newf(fault.Format, "%q has no matching loop start", ins.Text).In("method").At(ins.Line)
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			method[start].Jump = i
			ins.Jump = start
		case token.SET_ASIDE:
			if len(open) == 0 {
				return fault.New(fault.Format, "set aside outside of a loop").In("method").At(ins.Line)
			}
			ins.Jump = open[len(open)-1]
		}
	}
	if len(open) > 0 {
		ins := method[open[len(open)-1]]
		return fault.Newf(fault.Format, "loop %q is never closed", ins.Text).In("method").At(ins.Line)
	}
	return nil
}
