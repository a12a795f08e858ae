package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Ballot is a set of distinct voters supporting a single decision.
type Ballot struct {
	// Accounts that have already voted.
	Voters []interop.Hash160

	// Height of block with the last vote.
	Height int
}

// Vote adds a vote of 'from' to the ballot stored by 'key'. It returns false
// if 'from' has already voted for this decision.
func Vote(ctx storage.Context, key []byte, from interop.Hash160) bool {
	b := GetBallot(ctx, key)
	for i := range b.Voters {
		if b.Voters[i].Equals(from) {
			return false
		}
	}

	b.Voters = append(b.Voters, from)
	b.Height = ledger.CurrentIndex()
	SetSerialized(ctx, key, b)

	return true
}

// CountVotes returns the number of ballot voters that belong to the given
// electorate.
func CountVotes(ctx storage.Context, key []byte, electorate []interop.Hash160) int {
	b := GetBallot(ctx, key)
	n := 0
	for i := range b.Voters {
		for j := range electorate {
			if b.Voters[i].Equals(electorate[j]) {
				n++
				break
			}
		}
	}
	return n
}

// RemoveVotes clears ballot of the decision that has been accepted.
func RemoveVotes(ctx storage.Context, key []byte) {
	storage.Delete(ctx, key)
}

// DropVoter removes votes of 'voter' from every ballot stored under the
// prefix. Ballots left without voters are deleted.
func DropVoter(ctx storage.Context, prefix []byte, voter interop.Hash160) {
	keys := [][]byte{}
	it := storage.Find(ctx, prefix, storage.KeysOnly)
	for iterator.Next(it) {
		keys = append(keys, iterator.Value(it).([]byte))
	}

	for i := range keys {
		b := GetBallot(ctx, keys[i])
		voters := []interop.Hash160{}
		for j := range b.Voters {
			if !b.Voters[j].Equals(voter) {
				voters = append(voters, b.Voters[j])
			}
		}

		switch {
		case len(voters) == 0:
			storage.Delete(ctx, keys[i])
		case len(voters) != len(b.Voters):
			b.Voters = voters
			SetSerialized(ctx, keys[i], b)
		}
	}
}

// GetBallot returns deserialized ballot stored by the key or an empty one.
func GetBallot(ctx storage.Context, key []byte) Ballot {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(Ballot)
	}

	return Ballot{Voters: []interop.Hash160{}}
}
