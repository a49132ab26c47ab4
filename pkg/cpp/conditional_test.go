package cpp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConditionalIfndef(t *testing.T) {
	tests := []struct {
		name    string
		defines []string
		input   string
		want    []string
	}{
		{
			name:  "taken",
			input: "#ifndef FOO\nyes\n#endif\nafter\n",
			want:  []string{"yes", "after"},
		},
		{
			name:    "not taken",
			defines: []string{"FOO"},
			input:   "#ifndef FOO\nyes\n#endif\nafter\n",
			want:    []string{"after"},
		},
		{
			name:  "taken with else",
			input: "#ifndef FOO\nyes\n#else\nno\n#endif\n",
			want:  []string{"yes"},
		},
		{
			name:    "not taken with else",
			defines: []string{"FOO"},
			input:   "#ifndef FOO\nyes\n#else\nno\n#endif\n",
			want:    []string{"no"},
		},
		{
			name:  "nested all taken",
			input: "#ifndef A\n#ifndef B\nab\n#else\nnb\n#endif\na\n#endif\n",
			want:  []string{"ab", "a"},
		},
		{
			name:    "nested inner not taken",
			defines: []string{"B"},
			input:   "#ifndef A\n#ifndef B\nab\n#else\nnb\n#endif\na\n#else\nna\n#endif\n",
			want:    []string{"nb", "a"},
		},
		{
			name:    "nested inside skipped branch",
			defines: []string{"A"},
			input:   "#ifndef A\n#ifndef B\nab\n#else\nnb\n#endif\na\n#else\nna\n#endif\n",
			want:    []string{"na"},
		},
		{
			name:    "defines in skipped branch ignored",
			defines: []string{"FOO"},
			input:   "#ifndef FOO\n#define BAR 1\n#endif\nBAR\n",
			want:    []string{"BAR"},
		},
		{
			name:    "skipped branch is lenient",
			defines: []string{"FOO"},
			input:   "#ifndef FOO\n#bogus stuff\n#include <nope.h>\nUSE(\n#endif\nok\n",
			want:    []string{"ok"},
		},
		{
			name:    "comments in skipped branch",
			defines: []string{"FOO"},
			input:   "#ifndef FOO\n// #endif\n/* #else */\nhidden\n#endif\nshown\n",
			want:    []string{"shown"},
		},
		{
			name:    "strings in skipped branch",
			defines: []string{"FOO"},
			input:   "#ifndef FOO\ns = \"#endif\";\n#endif\nshown\n",
			want:    []string{"shown"},
		},
		{
			name:  "unterminated taken branch",
			input: "#ifndef FOO\nyes\n",
			want:  []string{"yes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessWith(t, Options{Defines: tt.defines}, tt.input)
			if diff := cmp.Diff(tt.want, nonBlank(got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConditionalGuardSeesLaterDefinition(t *testing.T) {
	source := `#ifndef FOO
#define FOO
int x;
#endif
#ifndef FOO
int y;
#endif
`
	got := preprocess(t, source)
	if diff := cmp.Diff("\n\nint x;\n\n\n", got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionalExactlyOneBranch(t *testing.T) {
	source := "#ifndef X\nthen\n#else\nelse\n#endif\n"
	for _, defines := range [][]string{nil, {"X"}} {
		got := nonBlank(preprocessWith(t, Options{Defines: defines}, source))
		if len(got) != 1 {
			t.Errorf("defines %v: got %v, want exactly one branch", defines, got)
		}
	}
}

func TestConditionalErrors(t *testing.T) {
	tests := []struct {
		name    string
		defines []string
		input   string
		wantErr string
	}{
		{"taken else without endif", nil, "#ifndef FOO\na\n#else\nb\n", "expected #endif"},
		{"skipped else without endif", []string{"FOO"}, "#ifndef FOO\na\n#else\nb\n", "expected #endif"},
		{"double else", nil, "#ifndef FOO\na\n#else\nb\n#else\nc\n#endif\n", "expected #endif"},
		{"missing identifier", nil, "#ifndef\nx\n#endif\n", "expected identifier"},
		{"extra endif", nil, "#ifndef FOO\na\n#endif\n#endif\n", "test.c:4: unexpected #endif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := preprocessErr(t, Options{Defines: tt.defines}, tt.input)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
