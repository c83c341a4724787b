package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestToggleVote(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	voters := toggleVote(nil, alice)
	require.Equal(t, []uuid.UUID{alice}, voters)

	voters = toggleVote(voters, bob)
	require.Len(t, voters, 2)

	// Voting again retracts, leaving the other voter untouched.
	voters = toggleVote(voters, alice)
	require.Equal(t, []uuid.UUID{bob}, voters)

	voters = toggleVote(voters, bob)
	require.Empty(t, voters)
}

func TestToggleVoteDoesNotAliasInput(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	orig := []uuid.UUID{alice, bob, carol}

	after := toggleVote(orig, alice)
	require.Equal(t, []uuid.UUID{bob, carol}, after)
	require.Equal(t, []uuid.UUID{alice, bob, carol}, orig)
}
