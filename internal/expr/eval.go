package expr

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// maxExponent bounds integer powers so a typo in a topic file cannot
// allocate unbounded big integers.
const maxExponent = 64

// ErrDivisionByZero is returned when a divisor or modulus evaluates to zero.
var ErrDivisionByZero = errors.New("division by zero")

// Env binds variable names to exact rational values.
type Env map[string]*big.Rat

// Functions lists the callable function names.
var Functions = map[string]int{
	"abs":   1,
	"floor": 1,
	"ceil":  1,
	"round": -1, // round(x) or round(x, digits)
	"min":   -1,
	"max":   -1,
	"gcd":   2,
	"lcm":   2,
}

// Eval evaluates the expression exactly over rationals.
func (e *Expression) Eval(env Env) (*big.Rat, error) {
	acc, err := e.Head.eval(env)
	if err != nil {
		return nil, err
	}
	for _, t := range e.Tail {
		v, err := t.Term.eval(env)
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case "+":
			acc = new(big.Rat).Add(acc, v)
		case "-":
			acc = new(big.Rat).Sub(acc, v)
		}
	}
	return acc, nil
}

func (t *Term) eval(env Env) (*big.Rat, error) {
	acc, err := t.Head.eval(env)
	if err != nil {
		return nil, err
	}
	for _, op := range t.Tail {
		v, err := op.Unary.eval(env)
		if err != nil {
			return nil, err
		}
		switch op.Op {
		case "*":
			acc = new(big.Rat).Mul(acc, v)
		case "/":
			if v.Sign() == 0 {
				return nil, ErrDivisionByZero
			}
			acc = new(big.Rat).Quo(acc, v)
		case "%":
			acc, err = mod(acc, v)
			if err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

func (u *Unary) eval(env Env) (*big.Rat, error) {
	v, err := u.Power.eval(env)
	if err != nil {
		return nil, err
	}
	if u.Neg {
		return new(big.Rat).Neg(v), nil
	}
	return v, nil
}

func (p *Power) eval(env Env) (*big.Rat, error) {
	base, err := p.Base.eval(env)
	if err != nil {
		return nil, err
	}
	if p.Exp == nil {
		return base, nil
	}
	exp, err := p.Exp.eval(env)
	if err != nil {
		return nil, err
	}
	return pow(base, exp)
}

func (p *Primary) eval(env Env) (*big.Rat, error) {
	switch {
	case p.Number != nil:
		r, ok := new(big.Rat).SetString(*p.Number)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", *p.Number)
		}
		return r, nil
	case p.Sub != nil:
		return p.Sub.Eval(env)
	case p.Ref != nil && p.Ref.Call:
		return p.Ref.call(env)
	case p.Ref != nil:
		v, ok := env[p.Ref.Name]
		if !ok {
			return nil, fmt.Errorf("undefined variable %q", p.Ref.Name)
		}
		return new(big.Rat).Set(v), nil
	}
	return nil, errors.New("empty expression")
}

func (r *Ref) call(env Env) (*big.Rat, error) {
	arity, ok := Functions[r.Name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", r.Name)
	}
	if arity >= 0 && len(r.Args) != arity {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", r.Name, arity, len(r.Args))
	}
	if len(r.Args) == 0 {
		return nil, fmt.Errorf("%s: expected arguments", r.Name)
	}

	args := make([]*big.Rat, len(r.Args))
	for i, a := range r.Args {
		v, err := a.Eval(env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch r.Name {
	case "abs":
		return new(big.Rat).Abs(args[0]), nil
	case "floor":
		return floor(args[0]), nil
	case "ceil":
		return ceil(args[0]), nil
	case "round":
		if len(args) > 2 {
			return nil, fmt.Errorf("round: expected 1 or 2 arguments, got %d", len(args))
		}
		digits := 0
		if len(args) == 2 {
			if !args[1].IsInt() || !args[1].Num().IsInt64() {
				return nil, errors.New("round: digits must be an integer")
			}
			digits = int(args[1].Num().Int64())
		}
		return roundTo(args[0], digits), nil
	case "min", "max":
		best := args[0]
		for _, a := range args[1:] {
			c := a.Cmp(best)
			if (r.Name == "min" && c < 0) || (r.Name == "max" && c > 0) {
				best = a
			}
		}
		return new(big.Rat).Set(best), nil
	case "gcd", "lcm":
		if !args[0].IsInt() || !args[1].IsInt() {
			return nil, fmt.Errorf("%s: arguments must be integers", r.Name)
		}
		a := new(big.Int).Abs(args[0].Num())
		b := new(big.Int).Abs(args[1].Num())
		g := new(big.Int).GCD(nil, nil, a, b)
		if r.Name == "gcd" {
			return new(big.Rat).SetInt(g), nil
		}
		if g.Sign() == 0 {
			return new(big.Rat), nil
		}
		l := new(big.Int).Mul(a, b)
		l.Quo(l, g)
		return new(big.Rat).SetInt(l), nil
	}
	return nil, fmt.Errorf("unknown function %q", r.Name)
}

func mod(a, b *big.Rat) (*big.Rat, error) {
	if !a.IsInt() || !b.IsInt() {
		return nil, errors.New("%: operands must be integers")
	}
	if b.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	m := new(big.Int).Mod(a.Num(), new(big.Int).Abs(b.Num()))
	return new(big.Rat).SetInt(m), nil
}

func pow(base, exp *big.Rat) (*big.Rat, error) {
	if !exp.IsInt() || !exp.Num().IsInt64() {
		return nil, errors.New("^: exponent must be an integer")
	}
	n := exp.Num().Int64()
	if n > maxExponent || n < -maxExponent {
		return nil, fmt.Errorf("^: exponent %d out of range", n)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(base.Num(), e, nil)
	den := new(big.Int).Exp(base.Denom(), e, nil)
	if neg {
		if num.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den), nil
}

// floor relies on big.Int.Div being Euclidean; the denominator of a
// normalized big.Rat is always positive.
func floor(x *big.Rat) *big.Rat {
	q := new(big.Int).Div(x.Num(), x.Denom())
	return new(big.Rat).SetInt(q)
}

func ceil(x *big.Rat) *big.Rat {
	neg := new(big.Rat).Neg(x)
	return new(big.Rat).Neg(floor(neg))
}

// roundTo rounds half away from zero to the given number of decimal digits.
func roundTo(x *big.Rat, digits int) *big.Rat {
	scale := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(digits))), nil))
	if digits < 0 {
		scale.Inv(scale)
	}
	scaled := new(big.Rat).Mul(x, scale)
	half := big.NewRat(1, 2)
	var r *big.Rat
	if scaled.Sign() >= 0 {
		r = floor(new(big.Rat).Add(scaled, half))
	} else {
		r = ceil(new(big.Rat).Sub(scaled, half))
	}
	return r.Quo(r, scale)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// FormatRat renders integers as "12" and other rationals as reduced "a/b".
func FormatRat(r *big.Rat) string {
	return r.RatString()
}

// FormatDecimal renders r with at most prec fractional digits, dropping
// trailing zeros. "3.50" becomes "3.5", "2.000" becomes "2".
func FormatDecimal(r *big.Rat, prec int) string {
	s := r.FloatString(prec)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
