package tray

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/777genius/engine-notifications/internal/intent"
)

func TestMemory_PostReplaces(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Post(Notification{Slot: SlotID, Text: "A"}))
	require.NoError(t, m.Post(Notification{Slot: SlotID, Text: "B"}))

	visible := m.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "B", visible[0].Text)
	assert.Equal(t, 2, m.Posts())
}

func TestMemory_TapDeliversAndRemoves(t *testing.T) {
	m := NewMemory()
	var got []intent.PendingActivation
	m.OnTap(func(p intent.PendingActivation) { got = append(got, p) })

	p := intent.PendingActivation{RequestCode: "rc", Intent: intent.New("engine-reactivate").WithExtra(intent.ExtraSessionID, "s")}
	require.NoError(t, m.Post(Notification{Slot: SlotID, Activation: p}))

	assert.True(t, m.Tap(SlotID))
	assert.False(t, m.Tap(SlotID))

	require.Len(t, got, 1)
	assert.Equal(t, "s", got[0].Intent.SessionID())
	assert.Empty(t, m.Visible())
}

func TestMemory_TapWithoutHandler(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Post(Notification{Slot: SlotID}))
	assert.True(t, m.Tap(SlotID))
}

func TestMemory_Cancel(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Post(Notification{Slot: SlotID}))
	require.NoError(t, m.Cancel(SlotID))
	_, ok := m.Get(SlotID)
	assert.False(t, ok)
}

// Whatever sequence of posts happens, the slot shows only the latest one.
func TestMemory_SingleSlotProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMemory()
		texts := rapid.SliceOfN(rapid.String(), 1, 20).Draw(t, "texts")
		for _, text := range texts {
			if err := m.Post(Notification{Slot: SlotID, Text: text}); err != nil {
				t.Fatal(err)
			}
		}
		visible := m.Visible()
		if len(visible) != 1 {
			t.Fatalf("visible = %d, want 1", len(visible))
		}
		if visible[0].Text != texts[len(texts)-1] {
			t.Fatalf("visible text %q, want %q", visible[0].Text, texts[len(texts)-1])
		}
	})
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Options{Backend: "BEEEP", AppName: "engine"})
	require.NoError(t, err)
	assert.IsType(t, &Beeep{}, s)

	_, err = Open(Options{Backend: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown tray backend")
}

func TestBeeep_PostTracksSlot(t *testing.T) {
	var calls []string
	orig := beeepNotify
	beeepNotify = func(title, message, icon string) error {
		calls = append(calls, fmt.Sprintf("%s|%s|%s", title, message, icon))
		return nil
	}
	t.Cleanup(func() { beeepNotify = orig })

	b := NewBeeep("engine")
	require.NoError(t, b.Post(Notification{Slot: SlotID, Title: "Engine", Text: "A", Icon: "/nonexistent/icon.png"}))
	require.NoError(t, b.Post(Notification{Slot: SlotID, Title: "Engine", Text: "B"}))

	assert.Equal(t, []string{"Engine|A|", "Engine|B|"}, calls)
	assert.Len(t, b.live, 1)
	assert.Equal(t, "B", b.live[SlotID].Text)

	b.OnTap(func(intent.PendingActivation) {})
	require.NoError(t, b.Cancel(SlotID))
	assert.Empty(t, b.live)
}

func TestBeeep_PostError(t *testing.T) {
	orig := beeepNotify
	beeepNotify = func(string, string, string) error { return fmt.Errorf("no notification daemon") }
	t.Cleanup(func() { beeepNotify = orig })

	b := NewBeeep("engine")
	err := b.Post(Notification{Slot: SlotID})
	assert.ErrorContains(t, err, "no notification daemon")
	assert.Empty(t, b.live)
}
