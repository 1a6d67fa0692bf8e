package lexer

import (
	"strconv"

	"github.com/xirelogy/go-lox/internal/token"
)

// Lexer converts source text into a stream of tokens.
type Lexer struct {
	input   string
	pos     int  // current position in bytes
	readPos int  // next read position
	ch      byte // current char
	line    int
	column  int
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Tokenize drains the lexer, returning every token up to and including EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		if l.ch == 0 && l.pos >= len(l.input) {
			return l.makeToken(token.EOF, l.mark())
		}

		if l.ch == '/' {
			if l.peekChar() == '/' {
				l.skipLineComment()
				continue
			}
			if l.peekChar() == '*' {
				l.skipBlockComment()
				continue
			}
		}

		start := l.mark()
		switch l.ch {
		case '(':
			return l.single(token.LParen, start)
		case ')':
			return l.single(token.RParen, start)
		case '{':
			return l.single(token.LBrace, start)
		case '}':
			return l.single(token.RBrace, start)
		case ',':
			return l.single(token.Comma, start)
		case '.':
			return l.single(token.Dot, start)
		case '-':
			return l.single(token.Minus, start)
		case '+':
			return l.single(token.Plus, start)
		case ';':
			return l.single(token.Semicolon, start)
		case '*':
			return l.single(token.Star, start)
		case '/':
			return l.single(token.Slash, start)
		case '!':
			return l.either('=', token.NotEqual, token.Bang, start)
		case '=':
			return l.either('=', token.Equal, token.Assign, start)
		case '<':
			return l.either('=', token.LessEqual, token.Less, start)
		case '>':
			return l.either('=', token.GreaterEqual, token.Greater, start)
		case '"':
			return l.readString(start)
		default:
			if isLetter(l.ch) {
				return l.readIdentifier(start)
			}
			if isDigit(l.ch) {
				return l.readNumber(start)
			}
			l.readChar()
			tok := l.makeToken(token.Illegal, start)
			tok.Literal = "Unexpected character."
			return tok
		}
	}
}

func (l *Lexer) mark() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) makeToken(t token.Type, start token.Position) token.Token {
	end := l.pos
	if end > len(l.input) {
		end = len(l.input)
	}
	return token.Token{
		Type:   t,
		Lexeme: l.input[start.Offset:end],
		Pos:    start,
	}
}

func (l *Lexer) single(t token.Type, start token.Position) token.Token {
	l.readChar()
	return l.makeToken(t, start)
}

// either consumes a one- or two-character operator depending on whether the
// next char is next.
func (l *Lexer) either(next byte, two, one token.Type, start token.Position) token.Token {
	if l.peekChar() == next {
		l.readChar()
		l.readChar()
		return l.makeToken(two, start)
	}
	l.readChar()
	return l.makeToken(one, start)
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 && l.pos >= len(l.input) {
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // '*'
			l.readChar() // '/'
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok := l.makeToken(token.Ident, start)
	tok.Type = token.LookupIdent(tok.Lexeme)
	return tok
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	tok := l.makeToken(token.Number, start)
	n, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		tok.Type = token.Illegal
		tok.Literal = "Invalid number."
		return tok
	}
	tok.Literal = n
	return tok
}

// readString scans a double-quoted string. Strings may span lines and carry
// no escape sequences.
func (l *Lexer) readString(start token.Position) token.Token {
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 && l.pos >= len(l.input) {
			tok := l.makeToken(token.Illegal, start)
			tok.Literal = "Unterminated string."
			return tok
		}
		l.readChar()
	}
	l.readChar() // closing quote
	tok := l.makeToken(token.String, start)
	tok.Literal = tok.Lexeme[1 : len(tok.Lexeme)-1]
	return tok
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
		l.ch = 0
		return
	}

	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
	l.column++
}
