package starlarks

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/reusee/tailambda/asts"
)

// ParseTypeName reads a type name such as "int", "List[string]",
// "Func[int,bool]" or "string[]".
func ParseTypeName(s string) (*asts.TypeName, error) {
	p := &typeNameParser{
		input: s,
	}
	name, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("bad type name %q: unexpected %q", s, p.input[p.pos:])
	}
	return name, nil
}

type typeNameParser struct {
	input string
	pos   int
}

func (p *typeNameParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeNameParser) consume(s string) bool {
	p.skipSpaces()
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *typeNameParser) parse() (*asts.TypeName, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("bad type name %q: expected a name at %d", p.input, start)
	}
	ret := &asts.TypeName{
		Name: p.input[start:p.pos],
	}

	if p.consume("[]") {
		ret.Array = true
		return ret, nil
	}
	if p.consume("[") {
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			ret.Args = append(ret.Args, arg)
			if p.consume("]") {
				break
			}
			if !p.consume(",") {
				return nil, fmt.Errorf("bad type name %q: expected , or ] at %d", p.input, p.pos)
			}
		}
		if p.consume("[]") {
			ret.Array = true
		}
	}
	p.skipSpaces()
	return ret, nil
}
