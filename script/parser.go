package script

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)s?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Arrow", Pattern: `->`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
	)
)

// File is the root AST node of a cue sheet.
type File struct {
	Cues []*CueNode `parser:"Newline* ( @@ ( Newline+ | EOF ) )*"`
}

// CueNode is one line: speaker, start -> end, quoted text.
type CueNode struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Speaker string         `parser:"@Ident"`
	Start   string         `parser:"@Number"`
	End     string         `parser:"'->' @Number"`
	Text    StringLiteral  `parser:"@String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// ParseFile parses cue-sheet syntax from an io.Reader.
func ParseFile(name string, r io.Reader) (*File, error) {
	return fileParser.Parse(name, r)
}

// ParseFileString parses cue-sheet syntax from a string.
func ParseFileString(name, input string) (*File, error) {
	return fileParser.ParseString(name, input)
}
