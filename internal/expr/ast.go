package expr

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Expression is a sum of terms, e.g. "a + b * 2 - c".
type Expression struct {
	Head *Term     `@@`
	Tail []*OpTerm `@@*`
}

// OpTerm is a term preceded by an additive operator.
type OpTerm struct {
	Op   string `@("+" | "-")`
	Term *Term  `@@`
}

// Term is a product of unary factors.
type Term struct {
	Head *Unary     `@@`
	Tail []*OpUnary `@@*`
}

// OpUnary is a factor preceded by a multiplicative operator.
type OpUnary struct {
	Op    string `@("*" | "/" | "%")`
	Unary *Unary `@@`
}

// Unary is an optionally negated power. "-2^2" parses as -(2^2).
type Unary struct {
	Neg   bool   `@"-"?`
	Power *Power `@@`
}

// Power is a primary raised to an optional right-associative exponent.
type Power struct {
	Base *Primary `@@`
	Exp  *Unary   `( "^" @@ )?`
}

// Primary is a number literal, a variable or call, or a parenthesized expression.
type Primary struct {
	Number *string     `  @Number`
	Ref    *Ref        `| @@`
	Sub    *Expression `| "(" @@ ")"`
}

// Ref names a variable, or a function when followed by an argument list.
type Ref struct {
	Name string        `@Ident`
	Call bool          `( @"("`
	Args []*Expression `  ( @@ ( "," @@ )* )? ")" )?`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[-+*/%^(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses an arithmetic expression.
func Parse(src string) (*Expression, error) {
	e, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, err)
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level literals.
func MustParse(src string) *Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Variables returns the distinct variable names referenced by the
// expression, in order of first appearance. Function names are excluded.
func (e *Expression) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	e.walk(func(r *Ref) {
		if r.Call || seen[r.Name] {
			return
		}
		seen[r.Name] = true
		names = append(names, r.Name)
	})
	return names
}

// Calls returns the distinct function names called by the expression.
func (e *Expression) Calls() []string {
	seen := make(map[string]bool)
	var names []string
	e.walk(func(r *Ref) {
		if !r.Call || seen[r.Name] {
			return
		}
		seen[r.Name] = true
		names = append(names, r.Name)
	})
	return names
}

func (e *Expression) walk(fn func(*Ref)) {
	e.Head.walk(fn)
	for _, t := range e.Tail {
		t.Term.walk(fn)
	}
}

func (t *Term) walk(fn func(*Ref)) {
	t.Head.walk(fn)
	for _, u := range t.Tail {
		u.Unary.walk(fn)
	}
}

func (u *Unary) walk(fn func(*Ref)) {
	u.Power.Base.walk(fn)
	if u.Power.Exp != nil {
		u.Power.Exp.walk(fn)
	}
}

func (p *Primary) walk(fn func(*Ref)) {
	switch {
	case p.Ref != nil:
		fn(p.Ref)
		for _, a := range p.Ref.Args {
			a.walk(fn)
		}
	case p.Sub != nil:
		p.Sub.walk(fn)
	}
}
