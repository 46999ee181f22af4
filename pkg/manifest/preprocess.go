package manifest

import "strings"

// kwPrefix marks a string literal that was a :keyword in the script.
const kwPrefix = "__kw_"

// preprocessSource rewrites build script source into something zygomys
// reads the way a Lisp user expects:
//
//	:format      -> "__kw_format"
//	upper-arm    -> upper_arm   (hyphen between identifier characters)
//	; comment    -> // comment
//
// String literals, both "..." and `...`, pass through untouched.
func preprocessSource(source string) string {
	p := preprocessor{src: source}
	p.out.Grow(len(source) + len(source)/4)
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '"':
			p.quoted('"', true)
		case c == '`':
			p.quoted('`', false)
		case c == ';':
			p.comment()
		case c == ':' && p.peek(1) == '=':
			p.copy(2)
		case c == ':' && isLetter(p.peek(1)):
			p.keyword()
		case c == '-' && p.pos > 0 && isIdentChar(p.src[p.pos-1]) && isLetter(p.peek(1)):
			p.out.WriteByte('_')
			p.pos++
		default:
			p.copy(1)
		}
	}
	return p.out.String()
}

type preprocessor struct {
	src string
	pos int
	out strings.Builder
}

// peek returns the byte n ahead of the cursor, or 0 past the end.
func (p *preprocessor) peek(n int) byte {
	if p.pos+n < len(p.src) {
		return p.src[p.pos+n]
	}
	return 0
}

func (p *preprocessor) copy(n int) {
	end := min(p.pos+n, len(p.src))
	p.out.WriteString(p.src[p.pos:end])
	p.pos = end
}

// quoted copies a literal delimited by q, including both delimiters. An
// unterminated literal runs to the end of the source.
func (p *preprocessor) quoted(q byte, escapes bool) {
	p.copy(1)
	for p.pos < len(p.src) && p.src[p.pos] != q {
		if escapes && p.src[p.pos] == '\\' {
			p.copy(2)
			continue
		}
		p.copy(1)
	}
	p.copy(1)
}

func (p *preprocessor) comment() {
	p.out.WriteString("//")
	for p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	end := strings.IndexByte(p.src[p.pos:], '\n')
	if end < 0 {
		end = len(p.src) - p.pos
	}
	p.copy(end)
}

func (p *preprocessor) keyword() {
	start := p.pos + 1
	end := start
	for end < len(p.src) && isKeywordChar(p.src[end]) {
		end++
	}
	p.out.WriteByte('"')
	p.out.WriteString(kwPrefix)
	p.out.WriteString(p.src[start:end])
	p.out.WriteByte('"')
	p.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isKeywordChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}
