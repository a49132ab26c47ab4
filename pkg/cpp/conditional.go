// conditional.go implements #ifndef / #else / #endif.
package cpp

// processIfndef handles an #ifndef directive. The cursor is positioned at
// the tested identifier. Both branches are consumed through the matching
// #endif; at most one of them contributes output.
func (p *Preprocessor) processIfndef(cur *Cursor, emit bool) (string, error) {
	ident, err := cur.ParseIdent()
	if err != nil {
		return "", err
	}

	if !p.defs.IsDefined(ident) {
		output, end, err := p.scan(cur, emit)
		if err != nil {
			return "", err
		}
		if end == endElse {
			if err := p.skipBranch(cur); err != nil {
				return "", err
			}
		}
		return output, nil
	}

	_, end, err := p.scan(cur, false)
	if err != nil {
		return "", err
	}
	if end != endElse {
		return "", nil
	}

	output, end, err := p.scan(cur, emit)
	if err != nil {
		return "", err
	}
	if end != endEndif {
		return "", cur.Errorf("expected #endif")
	}
	return output, nil
}

// skipBranch consumes an #else region that is not taken.
func (p *Preprocessor) skipBranch(cur *Cursor) error {
	_, end, err := p.scan(cur, false)
	if err != nil {
		return err
	}
	if end != endEndif {
		return cur.Errorf("expected #endif")
	}
	return nil
}
