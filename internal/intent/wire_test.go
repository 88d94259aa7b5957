package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func assertSameIntent(t require.TestingT, want, got Intent) {
	require.Equal(t, want.Target, got.Target)
	require.Equal(t, want.Action, got.Action)
	require.Equal(t, want.Category, got.Category)
	require.Equal(t, want.Flags, got.Flags)
	require.Equal(t, len(want.Extras), len(got.Extras))
	for k, v := range want.Extras {
		gv, ok := got.Extras[k]
		require.True(t, ok, "missing extra %q", k)
		require.Equal(t, []byte(v), []byte(gv), "extra %q", k)
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		in   Intent
	}{
		{"bare target", New("engine-main")},
		{"empty target", Intent{Action: ActionMain}},
		{"home", Home()},
		{"session", New("engine-reactivate").WithAction(ActionReactivate).WithExtra(ExtraSessionID, "sess-123")},
		{"empty session", New("engine-reactivate").WithExtra(ExtraSessionID, "")},
		{"reserved characters", New("engine-main").WithExtra(ExtraSessionID, "a&b=c?d#e%f+g h;i/j")},
		{"unicode", New("движок/окно").WithExtra(ExtraSessionID, "セッション-✓")},
		{"invalid utf8", New("engine-main").WithExtra(ExtraSessionID, string([]byte{0xff, 0xfe, 0x00, 'x'}))},
		{"flags", New("engine-main").WithFlags(FlagReorderToFront | FlagNewTask)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Encode(tt.in))
			require.NoError(t, err)
			assertSameIntent(t, tt.in, got)
		})
	}
}

func TestEncode_Format(t *testing.T) {
	s := Encode(New("engine-main").WithFlags(FlagReorderToFront).WithExtra(ExtraSessionID, "a b"))
	assert.Equal(t, "intent:engine-main?e.session_id=a+b&flags=2", s)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no scheme", "engine-main?flags=1"},
		{"other scheme", "https://example.com"},
		{"bad flags", "intent:engine-main?flags=abc"},
		{"bad target escape", "intent:engine%zz"},
		{"bad query escape", "intent:engine?e.k=%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

// Session identifiers of any byte content survive the wire form unchanged.
func TestEncodeDecode_SessionIDProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOf(rapid.Byte()).Draw(t, "sessionBytes")
		text := rapid.String().Draw(t, "sessionText")
		target := rapid.StringMatching(`[a-z][a-z0-9./-]{0,20}`).Draw(t, "target")

		for _, sid := range []string{string(raw), text} {
			in := New(target).WithAction(ActionReactivate).WithExtra(ExtraSessionID, sid)
			out, err := Decode(Encode(in))
			if err != nil {
				t.Fatalf("decode %q: %v", Encode(in), err)
			}
			if out.SessionID() != sid {
				t.Fatalf("session id changed: %q -> %q", sid, out.SessionID())
			}
			if out.Target != target {
				t.Fatalf("target changed: %q -> %q", target, out.Target)
			}
		}
	})
}
