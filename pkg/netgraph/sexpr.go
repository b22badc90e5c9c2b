package netgraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenLeftParen
	tokenRightParen
	tokenSymbol
	tokenString
)

type token struct {
	typ   tokenType
	value string
}

// lexer tokenizes s-expressions.
type lexer struct {
	reader *bufio.Reader
	peeked *rune
}

func (l *lexer) next() (token, error) {
	for {
		ch, err := l.peek()
		if err == io.EOF {
			return token{typ: tokenEOF}, nil
		}
		if err != nil {
			return token{}, err
		}
		if !unicode.IsSpace(ch) {
			break
		}
		l.read()
	}

	ch, _ := l.peek()
	switch ch {
	case '(':
		l.read()
		return token{typ: tokenLeftParen}, nil
	case ')':
		l.read()
		return token{typ: tokenRightParen}, nil
	case '"':
		return l.readString()
	default:
		return l.readSymbol()
	}
}

func (l *lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = &ch
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	if l.peeked != nil {
		ch := *l.peeked
		l.peeked = nil
		return ch, nil
	}
	ch, _, err := l.reader.ReadRune()
	return ch, err
}

// readString reads a Go quoted string as written by strconv.Quote.
func (l *lexer) readString() (token, error) {
	raw := []rune{}
	ch, _ := l.read()
	raw = append(raw, ch)
	for {
		ch, err := l.read()
		if err != nil {
			return token{}, fmt.Errorf("unexpected EOF in string")
		}
		raw = append(raw, ch)
		if ch == '\\' {
			esc, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("unexpected EOF after backslash")
			}
			raw = append(raw, esc)
			continue
		}
		if ch == '"' {
			break
		}
	}
	s, err := strconv.Unquote(string(raw))
	if err != nil {
		return token{}, fmt.Errorf("invalid string %s: %w", string(raw), err)
	}
	return token{typ: tokenString, value: s}, nil
}

func (l *lexer) readSymbol() (token, error) {
	var result []rune
	for {
		ch, err := l.peek()
		if err != nil || unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		result = append(result, ch)
	}
	return token{typ: tokenSymbol, value: string(result)}, nil
}

// sexpr is an atom or a list.
type sexpr struct {
	atom string
	list []*sexpr
	leaf bool
}

func (s *sexpr) head() string {
	if s.leaf || len(s.list) == 0 || !s.list[0].leaf {
		return ""
	}
	return s.list[0].atom
}

type sexprParser struct {
	lexer   *lexer
	current token
}

func (p *sexprParser) parseExpr() (*sexpr, error) {
	switch p.current.typ {
	case tokenLeftParen:
		return p.parseList()
	case tokenSymbol, tokenString:
		return &sexpr{atom: p.current.value, leaf: true}, nil
	case tokenRightParen:
		return nil, fmt.Errorf("unexpected ')'")
	default:
		return nil, fmt.Errorf("unexpected EOF")
	}
}

func (p *sexprParser) parseList() (*sexpr, error) {
	list := &sexpr{}
	for {
		tok, err := p.lexer.next()
		if err != nil {
			return nil, err
		}
		p.current = tok
		switch tok.typ {
		case tokenRightParen:
			return list, nil
		case tokenEOF:
			return nil, fmt.Errorf("unexpected EOF in list")
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.list = append(list.list, elem)
	}
}

// ReadSExpr decodes a graph written by WriteSExpr. The decoded nodes
// carry only ids and labels.
func ReadSExpr(r io.Reader) (*Graph, error) {
	p := &sexprParser{lexer: &lexer{reader: bufio.NewReader(r)}}
	tok, err := p.lexer.next()
	if err != nil {
		return nil, fmt.Errorf("netgraph: %w", err)
	}
	p.current = tok
	root, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("netgraph: %w", err)
	}
	if root.head() != "netgraph" {
		return nil, fmt.Errorf("netgraph: expected (netgraph ...)")
	}

	g := &Graph{}
	ids := make(map[int]bool)
	for _, section := range root.list[1:] {
		switch section.head() {
		case "nodes":
			for _, item := range section.list[1:] {
				if item.head() != "node" || len(item.list) != 3 {
					return nil, fmt.Errorf("netgraph: malformed node")
				}
				id, err := strconv.Atoi(item.list[1].atom)
				if err != nil || id < 1 || ids[id] {
					return nil, fmt.Errorf("netgraph: invalid node id %q", item.list[1].atom)
				}
				ids[id] = true
				g.Nodes = append(g.Nodes, &Node{ID: id, Label: item.list[2].atom})
			}

		case "edges":
			for _, item := range section.list[1:] {
				if item.head() != "edge" || len(item.list) < 3 || len(item.list) > 4 {
					return nil, fmt.Errorf("netgraph: malformed edge")
				}
				from, err1 := strconv.Atoi(item.list[1].atom)
				to, err2 := strconv.Atoi(item.list[2].atom)
				if err1 != nil || err2 != nil || !ids[from] || !ids[to] {
					return nil, fmt.Errorf("netgraph: edge references unknown node")
				}
				e := &Edge{From: from, To: to}
				if len(item.list) == 4 {
					e.Label = item.list[3].atom
				}
				g.Edges = append(g.Edges, e)
			}

		default:
			return nil, fmt.Errorf("netgraph: unknown section %q", section.head())
		}
	}
	return g, nil
}
