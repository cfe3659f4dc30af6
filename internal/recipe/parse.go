// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package recipe

import (
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/scanner"
	"nickandperla.net/chef/internal/token"
)

// Option configures a parse.
type Option func(*parser)

// WithLogger sets the logger that receives one debug record per section.
func WithLogger(l *slog.Logger) Option {
	return func(p *parser) {
		if l != nil {
			p.log = l
		}
	}
}

type parser struct {
	scan *scanner.Scanner
	log  *slog.Logger
}

// Parse reads a whole recipe document: the main recipe followed by any
// auxiliary recipes.
func Parse(r io.Reader, opts ...Option) (*Recipe, error) {
	p := &parser{
		scan: scanner.New(r),
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p.document()
}

// ParseString parses a recipe held in a string.
func ParseString(s string, opts ...Option) (*Recipe, error) {
	return Parse(strings.NewReader(s), opts...)
}

func (p *parser) document() (*Recipe, error) {
	top, err := p.recipe(true)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := p.scan.Peek(); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		aux, err := p.recipe(false)
		if err != nil {
			return nil, err
		}
		top.Auxiliary = append(top.Auxiliary, aux)
	}

	if err := checkServeTargets(top, top); err != nil {
		return nil, err
	}
	for _, aux := range top.Auxiliary {
		if err := checkServeTargets(top, aux); err != nil {
			return nil, err
		}
	}
	return top, nil
}

// next returns the next block, turning end of document into a missing
// section error.
func (p *parser) next(section string) (*scanner.Block, error) {
	b, err := p.scan.Next()
	if err == io.EOF {
		return nil, fault.New(fault.Format, "missing section").In(section).At(p.scan.Line())
	}
	if err != nil {
		return nil, fault.Wrap(fault.Format, "reading recipe", err).In(section)
	}
	return b, nil
}

// recipe parses one recipe. Only the main recipe must carry a Serves
// section; an auxiliary recipe may carry one.
func (p *parser) recipe(main bool) (*Recipe, error) {
	b, err := p.scan.Next()
	if errors.Is(err, io.EOF) {
		return nil, fault.New(fault.Format, "no recipe title").In("title")
	} else if err != nil {
		return nil, fault.Wrap(fault.Format, "reading recipe", err).In("title")
	}
	title, ok := parseTitle(b)
	if !ok {
		return nil, fault.New(fault.Format, "no recipe title").In("title").At(b.Line)
	}
	r := &Recipe{Title: title}
	p.log.Debug("section", "section", "title", "line", b.Line, "title", title)

	if b, err = p.next("ingredients"); err != nil {
		return nil, err
	}
	if !strings.Contains(b.FirstWord(), "Ingredients") {
		r.Comment = b.Text
		p.log.Debug("section", "section", "comment", "line", b.Line)
		if b, err = p.next("ingredients"); err != nil {
			return nil, err
		}
		if !strings.Contains(b.FirstWord(), "Ingredients") {
			return nil, fault.New(fault.Format, "missing section").In("ingredients").At(b.Line)
		}
	}
	p.log.Debug("section", "section", "ingredients", "line", b.Line)
	text, line := b.Rest()
	if err := parseIngredients(r, text, line); err != nil {
		return nil, err
	}

	seen := 0 // 1 after cooking time, 2 after oven temperature
	for {
		if b, err = p.next("method"); err != nil {
			return nil, err
		}
		word := b.FirstWord()
		switch {
		case strings.Contains(word, "Method"):
		case strings.Contains(word, "Cooking") && seen < 1:
			r.CookingTime = parseCookingTime(b.Text)
			p.log.Debug("section", "section", "cooking time", "line", b.Line)
			seen = 1
			continue
		case strings.Contains(word, "Pre-heat") && seen < 2:
			r.Oven = parseOven(b.Text)
			p.log.Debug("section", "section", "oven temperature", "line", b.Line)
			seen = 2
			continue
		default:
			return nil, fault.Newf(fault.Format, "missing section, found %q", word).In("method").At(b.Line)
		}
		break
	}
	p.log.Debug("section", "section", "method", "line", b.Line)
	text, line = methodBody(b)
	if err := parseMethod(r, text, line); err != nil {
		return nil, err
	}

	if main {
		b, err = p.next("serves")
		if err != nil {
			return nil, err
		}
		if !strings.Contains(b.FirstWord(), "Serves") {
			return nil, fault.Newf(fault.Format, "missing section, found %q", b.FirstWord()).In("serves").At(b.Line)
		}
		r.Serves = parseServes(b.Text)
		p.log.Debug("section", "section", "serves", "line", b.Line, "serves", r.Serves)
	} else if b, err := p.scan.Peek(); err == nil && strings.Contains(b.FirstWord(), "Serves") {
		p.scan.Next()
		r.Serves = parseServes(b.Text)
	}
	return r, nil
}

// parseTitle takes the first line up to its first ". " or its closing
// period.
func parseTitle(b *scanner.Block) (string, bool) {
	first := b.Lines()[0]
	i := strings.Index(first+" ", ". ")
	if i < 0 {
		return "", false
	}
	title := strings.TrimSpace(first[:i])
	return title, title != ""
}

// methodBody returns the instructions after the "Method." header,
// including any written on the header line itself.
func methodBody(b *scanner.Block) (string, int) {
	first := b.Lines()[0]
	rest, line := b.Rest()
	if _, after, ok := strings.Cut(first, "."); ok && strings.TrimSpace(after) != "" {
		return after + "\n" + rest, b.Line
	}
	return rest, line
}

var (
	cookingRe = regexp.MustCompile(`(\d+)\s*(hours?|minutes?)?`)
	ovenRe    = regexp.MustCompile(`(\d+) degrees(?: Celsius)?(?: \(gas mark (\d+)\))?`)
	servesRe  = regexp.MustCompile(`Serves\s+(\d+)`)
)

func parseCookingTime(text string) *CookingTime {
	ct := &CookingTime{Text: text}
	if m := cookingRe.FindStringSubmatch(text); m != nil {
		ct.Amount, _ = strconv.Atoi(m[1])
		ct.Unit = m[2]
	}
	return ct
}

func parseOven(text string) *Oven {
	o := &Oven{Text: text}
	if m := ovenRe.FindStringSubmatch(text); m != nil {
		o.Degrees, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			o.GasMark, _ = strconv.Atoi(m[2])
		}
	}
	return o
}

func parseServes(text string) int {
	if m := servesRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// checkServeTargets verifies every "Serve with" in r names an auxiliary
// recipe of the document.
func checkServeTargets(doc, r *Recipe) error {
	for _, ins := range r.Method {
		if ins.Op != token.SERVE_WITH {
			continue
		}
		if _, ok := doc.FindAuxiliary(ins.Target); !ok {
			return fault.Newf(fault.Format, "no auxiliary recipe named %q", ins.Target).In("method").At(ins.Line)
		}
	}
	return nil
}
