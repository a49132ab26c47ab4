// expand.go implements macro argument reading, parameter substitution and
// re-scanning of expanded text.
package cpp

import (
	"strings"
)

// readMacroArg reads one macro argument. It stops before a comma at
// depth 0 or before the closing parenthesis of the argument list.
// Nested parentheses and string literals are copied verbatim.
func readMacroArg(cur *Cursor, depth int) (string, error) {
	var sb strings.Builder

	for {
		if cur.EOF() {
			return "", cur.Errorf("end of input inside macro argument")
		}

		switch ch := cur.Peek(); ch {
		case '"':
			if err := copyString(cur, &sb); err != nil {
				return "", err
			}
		case '(':
			sb.WriteByte(cur.Eat())
			inner, err := readMacroArg(cur, depth+1)
			if err != nil {
				return "", err
			}
			sb.WriteString(inner)
			sb.WriteByte(cur.Eat())
		case ')':
			return sb.String(), nil
		case ',':
			if depth == 0 {
				return sb.String(), nil
			}
			sb.WriteByte(cur.Eat())
		default:
			sb.WriteByte(cur.Eat())
		}
	}
}

// copyString copies a string literal, delimiters included, from cur to sb.
// A backslash escapes the character after it.
func copyString(cur *Cursor, sb *strings.Builder) error {
	line := cur.Line()
	sb.WriteByte(cur.Eat())
	for {
		if cur.EOF() {
			return &Error{File: cur.Name(), Line: line, Msg: "unexpected end of input inside string"}
		}
		ch := cur.Eat()
		sb.WriteByte(ch)
		switch ch {
		case '"':
			return nil
		case '\\':
			if cur.EOF() {
				return &Error{File: cur.Name(), Line: line, Msg: "unexpected end of input inside string"}
			}
			sb.WriteByte(cur.Eat())
		}
	}
}

// readMacroArgs reads the argument list of a function-like macro
// invocation. The opening parenthesis must already be consumed.
func readMacroArgs(cur *Cursor) ([]string, error) {
	var args []string
	for {
		if cur.EOF() {
			return nil, cur.Errorf("unexpected end of input in arguments")
		}
		ok, err := cur.MatchToken(")")
		if err != nil {
			return nil, err
		}
		if ok {
			return args, nil
		}

		arg, err := readMacroArg(cur, 0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if ok, err = cur.MatchToken(")"); err != nil {
			return nil, err
		} else if ok {
			return args, nil
		}
		if err := cur.ExpectToken(","); err != nil {
			return nil, err
		}
	}
}

// expandMacro expands a use of def whose name has just been consumed.
// line is the line the name appeared on.
func (p *Preprocessor) expandMacro(cur *Cursor, def *Def, line int, emit bool) (string, error) {
	text := def.Text

	if def.IsFunction() {
		// Without an immediately following argument list the name is
		// left as it is.
		if !cur.MatchChars("(") {
			return def.Name, nil
		}

		args, err := readMacroArgs(cur)
		if err != nil {
			return "", err
		}
		if len(args) != len(def.Params) {
			return "", cur.Errorf("macro %s expected %d arguments", def.Name, len(def.Params))
		}

		if p.opts.StrictParams {
			text = substituteIdents(text, def.Params, args)
		} else {
			text = substituteText(text, def.Params, args)
		}
	}

	if err := p.enter(cur); err != nil {
		return "", err
	}
	defer p.leave()

	p.log.WithField("macro", def.Name).Tracef("expanding at %s:%d", cur.Name(), line)

	sub := NewCursorAt(text, cur.Name(), line)
	output, end, err := p.scan(sub, emit)
	if err != nil {
		return "", err
	}
	if end != endNone {
		return "", sub.Errorf("unexpected #%s", end)
	}
	return output, nil
}

// substituteText replaces every occurrence of each parameter name in
// body with the matching argument, one parameter after another. Matches
// are plain substrings: they may sit inside longer identifiers or
// string literals, and text inserted for an earlier parameter is
// subject to replacement of later ones.
func substituteText(body string, params, args []string) string {
	for i, param := range params {
		if param == "" {
			continue
		}
		body = strings.ReplaceAll(body, param, args[i])
	}
	return body
}

// substituteIdents replaces whole identifiers that name a parameter, in
// a single pass, leaving string literals untouched.
func substituteIdents(body string, params, args []string) string {
	values := make(map[string]string, len(params))
	for i, param := range params {
		if _, dup := values[param]; !dup {
			values[param] = args[i]
		}
	}

	var sb strings.Builder
	for i := 0; i < len(body); {
		ch := body[i]
		switch {
		case ch == '"':
			j := i + 1
			for j < len(body) && body[j] != '"' {
				if body[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(body))
			sb.WriteString(body[i:j])
			i = j
		case isIdentStart(ch):
			j := i + 1
			for j < len(body) && isIdentContinue(body[j]) {
				j++
			}
			word := body[i:j]
			if v, ok := values[word]; ok {
				sb.WriteString(v)
			} else {
				sb.WriteString(word)
			}
			i = j
		case ch >= '0' && ch <= '9':
			// Numbers like 0x1f are not identifiers.
			j := i + 1
			for j < len(body) && isIdentContinue(body[j]) {
				j++
			}
			sb.WriteString(body[i:j])
			i = j
		default:
			sb.WriteByte(ch)
			i++
		}
	}
	return sb.String()
}
