package chtml

import "strings"

// Escape markers for the five characters that cannot appear literally in
// command text. The mapping is fixed and total: no other character is ever
// escaped.
var specialCharToTag = map[byte]string{
	'\n': `{\n}`,
	'\r': `{\r}`,
	'\t': `{\t}`,
	'{':  "{lb}",
	'}':  "{rb}",
}

var tagToSpecialChar = map[string]byte{
	`{\n}`: '\n',
	`{\r}`: '\r',
	`{\t}`: '\t',
	"{lb}": '{',
	"{rb}": '}',
}

// SourceString renders the span as source-equivalent command text: each
// newline, carriage return, tab and brace is replaced by its escape marker,
// everything else passes through unchanged. ParseText inverts it.
func (rt *RawText) SourceString() string {
	var sb strings.Builder
	sb.Grow(len(rt.text))
	for i := 0; i < len(rt.text); i++ {
		if tag, ok := specialCharToTag[rt.text[i]]; ok {
			sb.WriteString(tag)
		} else {
			sb.WriteByte(rt.text[i])
		}
	}
	return sb.String()
}
