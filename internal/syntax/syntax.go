// Package syntax colors rendered rows. Lexers come from chroma, picked by
// file name; colors come either from a chroma style or from the editor's
// 256-color theme.
package syntax

import (
	"strconv"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ThemeStyle selects the editor theme palette instead of a chroma style.
const ThemeStyle = "theme"

// Class is the coarse token category the theme palette knows about.
type Class int

const (
	Plain Class = iota
	Keyword
	Number
	String
	Comment
)

// Palette maps classes to 256-color indexes.
type Palette map[Class]int

// Token is a run of text with one color. Color is "" for the default.
type Token struct {
	Text  string
	Class Class
	Color string
}

// Highlighter tokenizes single rows.
type Highlighter struct {
	lexer   chroma.Lexer
	style   *chroma.Style
	palette Palette
}

// New picks a lexer for filename. It returns nil when no lexer matches, and
// a nil *Highlighter yields a single plain token.
func New(filename, styleName string, palette Palette) *Highlighter {
	if filename == "" {
		return nil
	}
	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil
	}
	h := &Highlighter{lexer: chroma.Coalesce(lexer), palette: palette}
	if styleName != "" && styleName != ThemeStyle {
		if s, ok := styles.Registry[styleName]; ok {
			h.style = s
		}
	}
	return h
}

// Language names the matched lexer.
func (h *Highlighter) Language() string {
	if h == nil {
		return ""
	}
	return h.lexer.Config().Name
}

// Tokens splits one rendered row into colored runs. Rows are lexed
// independently, so constructs spanning rows only color their first row.
func (h *Highlighter) Tokens(line string) []Token {
	if line == "" {
		return nil
	}
	if h == nil {
		return []Token{{Text: line}}
	}
	it, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return []Token{{Text: line}}
	}

	var out []Token
	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		class := classify(tok.Type)
		t := Token{Text: tok.Value, Class: class, Color: h.color(tok.Type, class)}
		// Lexers append a newline to unterminated input.
		if n := len(out); n > 0 && out[n-1].Color == t.Color && out[n-1].Class == t.Class {
			out[n-1].Text += t.Text
			continue
		}
		out = append(out, t)
	}
	return trimNewline(out, line)
}

func trimNewline(toks []Token, line string) []Token {
	total := 0
	for _, t := range toks {
		total += len(t.Text)
	}
	for total > len(line) && len(toks) > 0 {
		last := &toks[len(toks)-1]
		cut := total - len(line)
		if cut >= len(last.Text) {
			total -= len(last.Text)
			toks = toks[:len(toks)-1]
			continue
		}
		last.Text = last.Text[:len(last.Text)-cut]
		total = len(line)
	}
	return toks
}

func classify(tt chroma.TokenType) Class {
	switch {
	case tt.InCategory(chroma.Keyword):
		return Keyword
	case tt.InSubCategory(chroma.LiteralNumber):
		return Number
	case tt.InSubCategory(chroma.LiteralString):
		return String
	case tt.InCategory(chroma.Comment):
		return Comment
	default:
		return Plain
	}
}

func (h *Highlighter) color(tt chroma.TokenType, class Class) string {
	if h.style != nil {
		entry := h.style.Get(tt)
		if !entry.Colour.IsSet() || entry.Colour == h.style.Get(chroma.Text).Colour {
			return ""
		}
		return entry.Colour.String()
	}
	if class == Plain {
		return ""
	}
	if c, ok := h.palette[class]; ok {
		return strconv.Itoa(c)
	}
	return ""
}
