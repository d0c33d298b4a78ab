package layer

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// vertexLexer tokenizes vertex-list files. Line breaks are significant so a
// pair split across lines, or two pairs on one line, are rejected.
var vertexLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[-+]?[0-9]+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "EOL", Pattern: `(\r?\n)+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// vertexFile is the parse tree of one file.
type vertexFile struct {
	Entries []*vertexEntry `parser:"( @@ | EOL )*"`
}

// vertexEntry is a single "x,y" line.
type vertexEntry struct {
	Pos lexer.Position

	X int `parser:"@Int Comma"`
	Y int `parser:"@Int EOL"`
}

// sentinel reports whether the entry terminates a polygon.
func (e *vertexEntry) sentinel() bool {
	return e.X == -1 && e.Y == -1
}

func buildParser() (*participle.Parser[vertexFile], error) {
	return participle.Build[vertexFile](
		participle.Lexer(vertexLexer),
		participle.Elide("Whitespace"),
	)
}
