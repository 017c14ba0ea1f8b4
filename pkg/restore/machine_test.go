package restore

import (
	"testing"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name       string
		from       State
		event      Event
		wantState  State
		wantEffect Effect
	}{
		{"free name executes", CheckConflict, Event{Kind: NoConflict}, Execute, EffectExecute},
		{"conflict presents menu", CheckConflict, Event{Kind: Conflict}, Resolving, EffectPresent},
		{"attach skips execute", Resolving, Event{Kind: ChoseAttach}, Attached, EffectSwitchOrAttach},
		{"kill rechecks", Resolving, Event{Kind: ChoseKill}, CheckConflict, EffectKill},
		{"rename rechecks", Resolving, Event{Kind: ChoseRename, NewName: "dev2"}, CheckConflict, EffectRename},
		{"quit aborts", Resolving, Event{Kind: ChoseQuit}, Aborted, EffectNone},
		{"executed attaches", Execute, Event{Kind: Executed}, Attached, EffectSwitchOrAttach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, effect, err := Transition(tt.from, tt.event, "dev")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestTransition_SelfKillGuard(t *testing.T) {
	state, effect, err := Transition(Resolving, Event{Kind: ChoseKill, SelfAttached: true}, "dev")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSelfKill))
	assert.Equal(t, Resolving, state)
	assert.Equal(t, EffectNone, effect, "kill must never be requested for the caller's own session")
}

func TestTransition_RenameRequiresName(t *testing.T) {
	_, effect, err := Transition(Resolving, Event{Kind: ChoseRename}, "dev")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSessionName))
	assert.Equal(t, EffectNone, effect)
}

func TestTransition_Invalid(t *testing.T) {
	invalid := []struct {
		from  State
		event EventKind
	}{
		{CheckConflict, ChoseAttach},
		{CheckConflict, Executed},
		{Resolving, NoConflict},
		{Resolving, Executed},
		{Execute, Conflict},
		{Attached, NoConflict},
		{Aborted, ChoseQuit},
	}
	for _, tt := range invalid {
		_, _, err := Transition(tt.from, Event{Kind: tt.event}, "dev")
		assert.Error(t, err, "%s on %s", tt.event, tt.from)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, Attached.Terminal())
	assert.True(t, Aborted.Terminal())
	assert.False(t, CheckConflict.Terminal())
	assert.False(t, Resolving.Terminal())
	assert.False(t, Execute.Terminal())
}

func TestEventForKey(t *testing.T) {
	for key, kind := range map[rune]EventKind{
		KeyAttach: ChoseAttach,
		KeyKill:   ChoseKill,
		KeyRename: ChoseRename,
		KeyQuit:   ChoseQuit,
	} {
		ev, err := EventForKey(key)
		require.NoError(t, err)
		assert.Equal(t, kind, ev.Kind)
	}

	_, err := EventForKey('x')
	assert.Error(t, err)
}

func TestConflictOptions(t *testing.T) {
	require.NoError(t, session.ValidateOptions(ConflictOptions))
	assert.Len(t, ConflictOptions, 4)
	assert.Equal(t, KeyQuit, ConflictOptions[len(ConflictOptions)-1].Key)
}
