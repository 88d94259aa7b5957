package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_Resolved(t *testing.T) {
	m := Match{Name: "Engine"}.Resolved()
	assert.Equal(t, "engine.desktop", m.DesktopID)
	assert.Equal(t, "Engine", m.Class)
	assert.Equal(t, "Engine", m.Title)
}

func TestMatch_ResolvedKeepsExplicitFields(t *testing.T) {
	m := Match{Name: "engine", DesktopID: "org.example.Engine.desktop", Class: "EngineGUI", Title: "Engine - chat"}.Resolved()
	assert.Equal(t, "org.example.Engine.desktop", m.DesktopID)
	assert.Equal(t, "EngineGUI", m.Class)
	assert.Equal(t, "Engine - chat", m.Title)
}

func TestGetAppID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"engine", "engine.desktop"},
		{"Engine", "engine.desktop"},
		{"org.example.Engine.desktop", "org.example.Engine.desktop"},
		{"  engine ", "engine.desktop"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetAppID(tt.in), "GetAppID(%q)", tt.in)
	}
}

// --- escapeJS tests (security-critical) ---

func TestEscapeJS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "engine", "engine"},
		{"single quote", "it's", `it\'s`},
		{"double quote", `say "hi"`, `say \"hi\"`},
		{"backslash", `a\b`, `a\\b`},
		{"newline", "a\nb", `a\nb`},
		{"carriage return", "a\rb", `a\rb`},
		{"nul", "a\x00b", `a\x00b`},
		{"line separator", "a\u2028b", `a\u2028b`},
		{"paragraph separator", "a\u2029b", `a\u2029b`},
		{"injection attempt", `'); global.context.unsafe_mode = true; ('`, `\'); global.context.unsafe_mode = true; (\'`},
		{"backslash before quote", `\'`, `\\\'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeJS(tt.input))
		})
	}
}

func TestEscapeJS_NoUnescapedQuotes(t *testing.T) {
	inputs := []string{`'`, `''`, `a'b'c`, `\'`, `\\'`, `'\''`}
	for _, in := range inputs {
		out := escapeJS(in)
		escaped := false
		for i := 0; i < len(out); i++ {
			if escaped {
				escaped = false
				continue
			}
			if out[i] == '\\' {
				escaped = true
				continue
			}
			assert.NotEqual(t, byte('\''), out[i], "unescaped quote in %q -> %q", in, out)
		}
	}
}
