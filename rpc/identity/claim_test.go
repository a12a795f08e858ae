package identity

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func newTestClaim(t *testing.T) (*Claim, *keys.PrivateKey) {
	key, err := keys.NewPrivateKey()
	require.NoError(t, err)

	subject := util.Uint160{1, 2, 3}
	return NewClaim(DefaultIdentifier, key.PublicKey(), subject, []byte("payload"), 0, 0), key
}

func TestClaimDigest(t *testing.T) {
	c, _ := newTestClaim(t)

	d1, err := c.Digest()
	require.NoError(t, err)
	require.Len(t, d1, 32)

	d2, err := c.Digest()
	require.NoError(t, err)
	require.Equal(t, d1, d2)

	t.Run("signature is not covered", func(t *testing.T) {
		cp := *c
		cp.Signature = []byte{1, 2, 3}
		d, err := cp.Digest()
		require.NoError(t, err)
		require.Equal(t, d1, d)
	})

	t.Run("nil payload", func(t *testing.T) {
		cp := *c
		cp.Payload = nil
		d, err := cp.Digest()
		require.NoError(t, err)

		cp.Payload = []byte{}
		empty, err := cp.Digest()
		require.NoError(t, err)
		require.Equal(t, empty, d)
	})

	for name, mutate := range map[string]func(*Claim){
		"identifier": func(c *Claim) { c.Identifier += "_" },
		"issuer":     func(c *Claim) { c.Issuer = util.Uint160{9} },
		"subject":    func(c *Claim) { c.Subject = util.Uint160{9} },
		"payload":    func(c *Claim) { c.Payload = []byte("other") },
		"validFrom":  func(c *Claim) { c.ValidFrom = big.NewInt(1) },
		"validTo":    func(c *Claim) { c.ValidTo = big.NewInt(1) },
	} {
		t.Run(name, func(t *testing.T) {
			cp := *c
			mutate(&cp)
			d, err := cp.Digest()
			require.NoError(t, err)
			require.NotEqual(t, d1, d)
		})
	}

	t.Run("empty identifier", func(t *testing.T) {
		cp := *c
		cp.Identifier = ""
		_, err := cp.Digest()
		require.ErrorIs(t, err, ErrEmptyIdentifier)
	})
}

func TestClaimSign(t *testing.T) {
	c, key := newTestClaim(t)

	require.NoError(t, c.Sign(key))
	require.Len(t, c.Signature, keys.SignatureLen)
	require.True(t, c.Verify(key.PublicKey()))

	other, err := keys.NewPrivateKey()
	require.NoError(t, err)
	require.False(t, c.Verify(other.PublicKey()))
	require.Error(t, c.Sign(other))

	c.Payload = []byte("tampered")
	require.False(t, c.Verify(key.PublicKey()))
}

func TestClaimValidAt(t *testing.T) {
	c, _ := newTestClaim(t)
	require.True(t, c.ValidAt(0))
	require.True(t, c.ValidAt(100500))

	c.ValidFrom = big.NewInt(10)
	c.ValidTo = big.NewInt(20)
	require.False(t, c.ValidAt(9))
	require.True(t, c.ValidAt(10))
	require.True(t, c.ValidAt(20))
	require.False(t, c.ValidAt(21))
}

func TestClaimFromStackItem(t *testing.T) {
	c, key := newTestClaim(t)
	require.NoError(t, c.Sign(key))

	item := stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte(c.Identifier)),
		stackitem.NewByteArray(c.Issuer.BytesBE()),
		stackitem.NewByteArray(c.Subject.BytesBE()),
		stackitem.NewByteArray(c.Payload),
		stackitem.NewBigInteger(c.ValidFrom),
		stackitem.NewBigInteger(c.ValidTo),
		stackitem.NewByteArray(c.Signature),
	})

	var res Claim
	require.NoError(t, res.FromStackItem(item))
	require.Equal(t, *c, res)

	t.Run("absent", func(t *testing.T) {
		item := stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteArray(nil),
			stackitem.Null{},
			stackitem.Null{},
			stackitem.Null{},
			stackitem.Make(0),
			stackitem.Make(0),
			stackitem.Null{},
		})

		var res Claim
		require.NoError(t, res.FromStackItem(item))
		require.Empty(t, res.Identifier)
	})

	t.Run("wrong structure", func(t *testing.T) {
		var res Claim
		require.Error(t, res.FromStackItem(stackitem.Make(1)))
		require.Error(t, res.FromStackItem(stackitem.NewStruct(nil)))
	})
}
