// Package jsdata reads the literal data scripts emitted by documentation
// generators: a sequence of `var NAME = <literal>;` statements whose
// right-hand sides are arrays, objects, strings, numbers, booleans or null.
package jsdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// SyntaxError reports input that is not a data script.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type token struct {
	tt   js.TokenType
	text string
	line int
}

func (t token) eof() bool { return t.tt == js.ErrorToken }

type reader struct {
	lex    *js.Lexer
	line   int
	peeked *token
}

// Parse reads a data script and returns every top-level assignment.
func Parse(r io.Reader) (*Script, error) {
	p := &reader{lex: js.NewLexer(parse.NewInput(r)), line: 1}
	s := &Script{}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.eof() {
			return s, nil
		}
		if tok.text == ";" {
			continue
		}

		switch tok.text {
		case "var", "let", "const":
			if tok, err = p.next(); err != nil {
				return nil, err
			}
		}
		if !isIdentifier(tok.text) {
			return nil, p.errorf(tok, "expected variable name, got %s", describe(tok))
		}
		name := tok.text

		if err := p.expect("="); err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		s.set(name, v)

		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.text == ";" {
			p.peeked = nil
		}
	}
}

func (p *reader) value() (Value, error) {
	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}
	if tok.eof() {
		return Value{}, p.errorf(tok, "unexpected end of input")
	}

	switch {
	case tok.tt == js.StringToken:
		s, err := unquote(tok.text)
		if err != nil {
			return Value{}, p.errorf(tok, "%v", err)
		}
		return Value{Kind: String, Str: s, Line: tok.line}, nil
	case tok.text == "[":
		return p.array(tok.line)
	case tok.text == "{":
		return p.object(tok.line)
	case tok.text == "null":
		return Value{Kind: Null, Line: tok.line}, nil
	case tok.text == "true", tok.text == "false":
		return Value{Kind: Bool, Bool: tok.text == "true", Line: tok.line}, nil
	case tok.text == "-":
		num, err := p.next()
		if err != nil {
			return Value{}, err
		}
		f, ok := parseNumber(num.text)
		if !ok {
			return Value{}, p.errorf(num, "expected number after '-', got %s", describe(num))
		}
		return Value{Kind: Number, Num: -f, Line: tok.line}, nil
	}

	if f, ok := parseNumber(tok.text); ok {
		return Value{Kind: Number, Num: f, Line: tok.line}, nil
	}
	return Value{}, p.errorf(tok, "unexpected %s", describe(tok))
}

func (p *reader) array(line int) (Value, error) {
	v := Value{Kind: Array, Line: line}
	for {
		tok, err := p.peek()
		if err != nil {
			return Value{}, err
		}
		if tok.text == "]" {
			p.peeked = nil
			return v, nil
		}

		item, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Items = append(v.Items, item)

		sep, err := p.next()
		if err != nil {
			return Value{}, err
		}
		switch sep.text {
		case ",":
		case "]":
			return v, nil
		default:
			return Value{}, p.errorf(sep, "expected ',' or ']' in array started on line %d, got %s", line, describe(sep))
		}
	}
}

func (p *reader) object(line int) (Value, error) {
	v := Value{Kind: Object, Line: line}
	for {
		tok, err := p.next()
		if err != nil {
			return Value{}, err
		}
		if tok.text == "}" {
			return v, nil
		}

		var key string
		switch {
		case tok.tt == js.StringToken:
			if key, err = unquote(tok.text); err != nil {
				return Value{}, p.errorf(tok, "%v", err)
			}
		case isIdentifier(tok.text):
			key = tok.text
		default:
			if _, ok := parseNumber(tok.text); !ok {
				return Value{}, p.errorf(tok, "expected object key, got %s", describe(tok))
			}
			key = tok.text
		}

		if err := p.expect(":"); err != nil {
			return Value{}, err
		}
		member, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Fields = append(v.Fields, Field{Key: key, Value: member})

		sep, err := p.next()
		if err != nil {
			return Value{}, err
		}
		switch sep.text {
		case ",":
		case "}":
			return v, nil
		default:
			return Value{}, p.errorf(sep, "expected ',' or '}' in object started on line %d, got %s", line, describe(sep))
		}
	}
}

func (p *reader) expect(text string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.text != text {
		return p.errorf(tok, "expected '%s', got %s", text, describe(tok))
	}
	return nil
}

func (p *reader) peek() (token, error) {
	if p.peeked != nil {
		return *p.peeked, nil
	}
	tok, err := p.next()
	if err != nil {
		return token{}, err
	}
	p.peeked = &tok
	return tok, nil
}

// next returns the next significant token, skipping whitespace and comments.
func (p *reader) next() (token, error) {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil
		return tok, nil
	}
	for {
		tt, data := p.lex.Next()
		line := p.line
		p.line += bytes.Count(data, []byte{'\n'})

		switch tt {
		case js.ErrorToken:
			if err := p.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
				return token{}, &SyntaxError{Line: line, Msg: err.Error()}
			}
			return token{tt: tt, line: line}, nil
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}
		return token{tt: tt, text: string(data), line: line}, nil
	}
}

func (p *reader) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Line: tok.line, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok token) string {
	if tok.eof() {
		return "end of input"
	}
	return strconv.Quote(tok.text)
}

func parseNumber(text string) (float64, bool) {
	if text == "" || !(text[0] == '.' || text[0] >= '0' && text[0] <= '9') {
		return 0, false
	}
	text = strings.ReplaceAll(text, "_", "")
	if n, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(n), true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, true
	}
	return 0, false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	switch s {
	case "null", "true", "false", "var", "let", "const":
		return false
	}
	return true
}
