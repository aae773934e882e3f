package clipweave

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

func numberOperand(c filterValue) (float64, bool) {
	switch t := c.native().(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// fCalc evaluates a simple arithmetic expression over the carried number,
// operators + - * / ** ^ (§4.E "Numeric"). A parenthesized "x" placeholder
// is not used — the carry substitutes for every bare "x" in the expr, and
// the carry itself is used directly when the expression is just an operator
// chain relative to it (e.g. "* 2 + 1").
func fCalc(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	n, ok := numberOperand(c)
	if !ok {
		return c
	}
	expr := argString(pos, 0, "")
	expr = strings.ReplaceAll(expr, "x", strconv.FormatFloat(n, 'f', -1, 64))
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "+") || strings.HasPrefix(expr, "-") || strings.HasPrefix(expr, "*") || strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "^") {
		expr = strconv.FormatFloat(n, 'f', -1, 64) + " " + expr
	}
	result, ok := evalArithmetic(expr, n)
	if !ok {
		return c
	}
	return jsonCarry(result)
}

func evalArithmetic(expr string, selfValue float64) (float64, bool) {
	if expr == "" {
		return selfValue, true
	}
	toks := tokenizeCalc(expr)
	if toks == nil {
		return 0, false
	}
	p := &calcParser{toks: toks}
	v, ok := p.parseExpr()
	if !ok || p.pos != len(p.toks) {
		return 0, false
	}
	return v, true
}

type calcToken struct {
	op  string
	num float64
	isN bool
}

func tokenizeCalc(s string) []calcToken {
	var toks []calcToken
	i := 0
	for i < len(s) {
		ch := s[i]
		if ch == ' ' {
			i++
			continue
		}
		if ch >= '0' && ch <= '9' || ch == '.' {
			j := i
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
				j++
			}
			f, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil
			}
			toks = append(toks, calcToken{num: f, isN: true})
			i = j
			continue
		}
		if i+1 < len(s) && s[i:i+2] == "**" {
			toks = append(toks, calcToken{op: "**"})
			i += 2
			continue
		}
		switch ch {
		case '+', '-', '*', '/', '^', '(', ')':
			toks = append(toks, calcToken{op: string(ch)})
			i++
		default:
			return nil
		}
	}
	return toks
}

type calcParser struct {
	toks []calcToken
	pos  int
}

func (p *calcParser) cur() (calcToken, bool) {
	if p.pos >= len(p.toks) {
		return calcToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *calcParser) parseExpr() (float64, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return 0, false
	}
	for {
		t, ok := p.cur()
		if !ok || (t.op != "+" && t.op != "-") {
			break
		}
		p.pos++
		right, ok := p.parseTerm()
		if !ok {
			return 0, false
		}
		if t.op == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, true
}

func (p *calcParser) parseTerm() (float64, bool) {
	left, ok := p.parsePow()
	if !ok {
		return 0, false
	}
	for {
		t, ok := p.cur()
		if !ok || (t.op != "*" && t.op != "/") {
			break
		}
		p.pos++
		right, ok := p.parsePow()
		if !ok {
			return 0, false
		}
		if t.op == "*" {
			left *= right
		} else {
			if right == 0 {
				return 0, false
			}
			left /= right
		}
	}
	return left, true
}

func (p *calcParser) parsePow() (float64, bool) {
	left, ok := p.parseAtom()
	if !ok {
		return 0, false
	}
	t, ok := p.cur()
	if ok && (t.op == "**" || t.op == "^") {
		p.pos++
		right, ok := p.parsePow()
		if !ok {
			return 0, false
		}
		return math.Pow(left, right), true
	}
	return left, true
}

func (p *calcParser) parseAtom() (float64, bool) {
	t, ok := p.cur()
	if !ok {
		return 0, false
	}
	if t.isN {
		p.pos++
		return t.num, true
	}
	if t.op == "-" {
		p.pos++
		v, ok := p.parseAtom()
		return -v, ok
	}
	if t.op == "(" {
		p.pos++
		v, ok := p.parseExpr()
		if !ok {
			return 0, false
		}
		t2, ok := p.cur()
		if !ok || t2.op != ")" {
			return 0, false
		}
		p.pos++
		return v, true
	}
	return 0, false
}

func fRound(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	n, ok := numberOperand(c)
	if !ok {
		return c
	}
	digits := argInt(pos, 0, 0)
	p := math.Pow(10, float64(digits))
	return jsonCarry(math.Round(n*p) / p)
}

// fNumberFormat renders a number with a fixed decimal count, decimal point,
// and thousands separator, grounded on go-humanize's comma insertion.
func fNumberFormat(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	n, ok := numberOperand(c)
	if !ok {
		return c
	}
	decimals := argInt(pos, 0, 0)
	dp := argString(pos, 1, ".")
	thousands := argString(pos, 2, ",")

	formatted := humanize.CommafWithDigits(n, decimals)
	if decimals > 0 {
		dot := strings.IndexByte(formatted, '.')
		if dot < 0 {
			formatted += "."
			dot = len(formatted) - 1
		}
		formatted += strings.Repeat("0", decimals-(len(formatted)-dot-1))
	}
	formatted = strings.ReplaceAll(formatted, ",", "\x00")
	formatted = strings.ReplaceAll(formatted, ".", dp)
	formatted = strings.ReplaceAll(formatted, "\x00", thousands)
	return stringCarry(formatted)
}
