package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerIsolatesSessions(t *testing.T) {
	mgr := NewManager(zap.NewNop(), testCatalog(), &fakeVoice{}, &scriptedTranscriber{}, nil, ScoreByTranscript)

	idA, machineA := mgr.Create()
	idB, machineB := mgr.Create()
	require.NotEqual(t, idA, idB)
	require.Equal(t, 2, mgr.Count())

	// Advancing one session must not move the other.
	require.NoError(t, machineA.GiveConsent())
	assert.Equal(t, StageUserInfo, machineA.Stage())
	assert.Equal(t, StageConsent, machineB.Stage())

	got, ok := mgr.Get(idA)
	require.True(t, ok)
	assert.Same(t, machineA, got)

	mgr.Remove(idA)
	_, ok = mgr.Get(idA)
	assert.False(t, ok)
	assert.Equal(t, 1, mgr.Count())
}

func TestManagerUnknownID(t *testing.T) {
	mgr := NewManager(zap.NewNop(), testCatalog(), nil, nil, nil, ScoreByTranscript)
	_, ok := mgr.Get("nope")
	assert.False(t, ok)
}
