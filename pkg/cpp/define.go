package cpp

import "strings"

// parseDef parses the remainder of a #define directive. The cursor is
// positioned at the macro name.
func parseDef(cur *Cursor) (*Def, error) {
	name, err := cur.ParseIdent()
	if err != nil {
		return nil, err
	}
	cur.EatSpaces()

	def := &Def{Name: name}

	if cur.MatchChars("(") {
		params := []string{}
		for {
			ok, err := cur.MatchToken(")")
			if err != nil {
				return nil, err
			}
			if ok {
				break
			}
			if cur.EOF() {
				return nil, cur.Errorf("end of input inside define directive")
			}

			cur.EatSpaces()
			param, err := cur.ParseIdent()
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			if ok, err = cur.MatchToken(")"); err != nil {
				return nil, err
			} else if ok {
				break
			}
			if err := cur.ExpectToken(","); err != nil {
				return nil, err
			}
		}
		def.Params = params
	}

	// Replacement text runs to the end of the line. A backslash continues
	// it onto the next one.
	var text strings.Builder
	for !cur.EOF() && cur.Peek() != '\n' {
		if cur.Peek() != '\\' {
			text.WriteByte(cur.Eat())
			continue
		}
		cur.Eat()
	continuation:
		for {
			if cur.EOF() {
				return nil, cur.Errorf("end of input inside #define continuation")
			}
			switch cur.Eat() {
			case '\n':
				break continuation
			case '\r', ' ':
			default:
				return nil, cur.Errorf("expected newline after '\\' in #define %s", name)
			}
		}
	}
	def.Text = strings.TrimSpace(text.String())

	return def, nil
}
