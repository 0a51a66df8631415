package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFiresInSubscriptionOrder(t *testing.T) {
	h := NewHub()
	var got []string
	a := h.OnUse(func() { got = append(got, "a") })
	h.OnUse(func() { got = append(got, "b") })

	h.Fire()
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, h.Subscribers())

	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Close(), ErrUnsubscribed)

	got = nil
	h.Fire()
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, 2, h.Fired())
}

func TestHubHandlerMaySubscribe(t *testing.T) {
	h := NewHub()
	calls := 0
	h.OnUse(func() {
		calls++
		h.OnUse(func() { calls += 10 })
	})

	h.Fire()
	assert.Equal(t, 1, calls, "new subscriber waits for the next fire")
}

func TestScriptDue(t *testing.T) {
	s, err := NewScript(
		Event{At: 2, Action: ActionUse},
		Event{At: 0.5, Action: ActionUse},
		Event{At: 1, Action: ActionGrab},
	)
	require.NoError(t, err)

	assert.Empty(t, s.Due(0.25))
	assert.Equal(t, []Event{{At: 0.5, Action: ActionUse}}, s.Due(0.5))
	assert.Equal(t, []Event{{At: 1, Action: ActionGrab}, {At: 2, Action: ActionUse}}, s.Due(5))
	assert.True(t, s.Done())
	assert.Empty(t, s.Due(10))

	s.Reset()
	assert.Len(t, s.Due(10), 3)
}

func TestScriptRejectsBadEvents(t *testing.T) {
	_, err := NewScript(Event{At: -1, Action: ActionUse})
	assert.Error(t, err)

	_, err = NewScript(Event{At: 1, Action: "jump"})
	assert.Error(t, err)
}
