package vectordb

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// parseLiteral parses the dict/list/scalar literal syntax older ingestion
// jobs wrote into payload fields, e.g. {'name': 'x', 'tags': ['a'], 'ok': True}.
//
// Supported: dicts with string keys, lists, tuples (as lists), single or
// double quoted strings with backslash escapes, ints, floats, True, False, None.
func parseLiteral(s string) (any, error) {
	p := &literalParser{src: []rune(s)}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	return v, nil
}

type literalParser struct {
	src []rune
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("literal at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *literalParser) peek() (rune, bool) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *literalParser) value() (any, error) {
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}

	switch {
	case r == '{':
		return p.dict()
	case r == '[':
		return p.list('[', ']')
	case r == '(':
		return p.list('(', ')')
	case r == '\'' || r == '"':
		return p.str()
	case r == '-' || r == '+' || r == '.' || unicode.IsDigit(r):
		return p.number()
	case unicode.IsLetter(r):
		return p.keyword()
	}
	return nil, p.errorf("unexpected character %q", r)
}

func (p *literalParser) dict() (any, error) {
	p.pos++ // {
	out := map[string]any{}
	for {
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated dict")
		}
		if r == '}' {
			p.pos++
			return out, nil
		}

		key, err := p.value()
		if err != nil {
			return nil, err
		}
		if r, ok := p.peek(); !ok || r != ':' {
			return nil, p.errorf("expected ':'")
		}
		p.pos++

		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out[fmt.Sprint(key)] = val

		r, ok = p.peek()
		if !ok {
			return nil, p.errorf("unterminated dict")
		}
		switch r {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

func (p *literalParser) list(open, closing rune) (any, error) {
	p.pos++ // open
	out := []any{}
	for {
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated %c", open)
		}
		if r == closing {
			p.pos++
			return out, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		r, ok = p.peek()
		if !ok {
			return nil, p.errorf("unterminated %c", open)
		}
		switch r {
		case ',':
			p.pos++
		case closing:
		default:
			return nil, p.errorf("expected ',' or %q", closing)
		}
	}
}

func (p *literalParser) str() (any, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		p.pos++
		switch r {
		case quote:
			return b.String(), nil
		case '\\':
			if p.pos >= len(p.src) {
				return nil, p.errorf("unterminated escape")
			}
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case 'u':
				if p.pos+4 > len(p.src) {
					return nil, p.errorf("short \\u escape")
				}
				code, err := strconv.ParseUint(string(p.src[p.pos:p.pos+4]), 16, 32)
				if err != nil {
					return nil, p.errorf("bad \\u escape")
				}
				b.WriteRune(rune(code))
				p.pos += 4
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
	return nil, p.errorf("unterminated string")
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if unicode.IsDigit(r) || strings.ContainsRune("+-.eE_", r) {
			p.pos++
			continue
		}
		break
	}
	tok := strings.ReplaceAll(string(p.src[start:p.pos]), "_", "")
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return float64(i), nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, p.errorf("bad number %q", tok)
	}
	return f, nil
}

func (p *literalParser) keyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsLetter(p.src[p.pos]) || p.src[p.pos] == '_') {
		p.pos++
	}
	switch word := string(p.src[start:p.pos]); word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		return nil, p.errorf("unknown identifier %q", word)
	}
}
