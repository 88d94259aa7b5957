package tray

import (
	"sort"
	"sync"
)

// Memory is an in-process tray. Tapping an entry removes it (auto-cancel)
// and delivers its activation to the tap handler.
type Memory struct {
	mu      sync.Mutex
	slots   map[int]Notification
	handler TapHandler
	posts   int
}

// NewMemory returns an empty in-memory tray.
func NewMemory() *Memory {
	return &Memory{slots: make(map[int]Notification)}
}

func (m *Memory) Post(n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[n.Slot] = n
	m.posts++
	return nil
}

func (m *Memory) Cancel(slot int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

func (m *Memory) OnTap(h TapHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
}

func (m *Memory) Close() error { return nil }

// Tap simulates the user tapping the notification in slot. It returns
// false when the slot is empty.
func (m *Memory) Tap(slot int) bool {
	m.mu.Lock()
	n, ok := m.slots[slot]
	if ok {
		delete(m.slots, slot)
	}
	h := m.handler
	m.mu.Unlock()

	if !ok {
		return false
	}
	if h != nil {
		h(n.Activation)
	}
	return true
}

// Get returns the notification in slot.
func (m *Memory) Get(slot int) (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.slots[slot]
	return n, ok
}

// Visible returns every shown notification ordered by slot.
func (m *Memory) Visible() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, 0, len(m.slots))
	for _, n := range m.slots {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Posts returns how many times Post was called.
func (m *Memory) Posts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts
}
