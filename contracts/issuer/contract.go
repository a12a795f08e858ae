package issuer

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/nfme-contract/common"
)

// TokenState is a minted collectible.
type TokenState struct {
	Owner interop.Hash160
	ID    []byte
	// Height of the minting block.
	MintedAt int
}

// Prefixes used for contract data storage.
const (
	// prefixTotalSupply contains the number of existing tokens.
	prefixTotalSupply byte = 0x00
	// prefixBalance contains map from the owner to their balance.
	prefixBalance byte = 0x01
	// prefixAccountToken contains map from (owner + token ID) to token ID.
	prefixAccountToken byte = 0x02
	// prefixToken contains map from token ID to TokenState.
	prefixToken byte = 0x21
	// prefixMinted contains set of identities that have ever minted.
	prefixMinted byte = 0x30
	// prefixMintedCount contains the number of tokens ever minted.
	prefixMintedCount byte = 0x31
	// prefixRevocation contains set of (subject + claim identifier) revoked
	// by the trusted issuer.
	prefixRevocation byte = 0x40

	issuerKeyKey  = "issuerKey"
	identifierKey = "identifier"
)

const (
	// DefaultIdentifier is the claim identifier required for minting if
	// none is provided on deployment.
	DefaultIdentifier = "nfme_mint_allowed"
	// mintPrice is the minimal GAS amount (0.1 GAS) paid for minting.
	mintPrice = 10_000_000
	// maxSupply is the maximum number of tokens ever minted.
	maxSupply = 10

	mintAction = "mint"
	symbol     = "NFME"
)

// Error messages.
const (
	ErrGASOnly           = "only GAS is accepted"
	ErrUnsupported       = "unsupported payment"
	ErrPrice             = "Please send enough ether"
	ErrAlreadyMinted     = "Already minted"
	ErrMintedOut         = "We are already minted out"
	ErrNoClaim           = "Required claim not available"
	ErrWrongIssuer       = "Wrong claim issuer"
	ErrWrongReceiver     = "Wrong claim receiver"
	ErrInvalidSignature  = "Claim signature not valid"
	ErrNotYetValid       = "Claim not yet valid"
	ErrExpired           = "Claim not valid anymore"
	ErrRevoked           = "Claim has been revoked"
	ErrTransferForbidden = "Transferring NFT is not allowed"
	ErrInvalidToken      = "invalid token"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)
	identifier := args[0].(string)
	issuerKey := common.ToPublicKey(args[1])

	if len(identifier) == 0 {
		identifier = DefaultIdentifier
	}
	if len(issuerKey) != interop.PublicKeyCompressedLen {
		panic("incorrect length of issuer public key")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, identifierKey, identifier)
	storage.Put(ctx, issuerKeyKey, issuerKey)
	storage.Put(ctx, []byte{prefixTotalSupply}, 0)
	storage.Put(ctx, []byte{prefixMintedCount}, 0)

	runtime.Log("issuer contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the trusted claim issuer.
func Update(script []byte, manifest []byte, data any) {
	common.CheckIssuerWitness(TrustedIssuer())

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("issuer contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP17Payment mints a token to the paying identity. GAS amount must be
// not less than the mint price and data must be an array starting with "mint".
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic(ErrGASOnly)
	}

	if data == nil {
		panic(ErrUnsupported)
	}
	args := data.([]any)
	if len(args) == 0 || args[0].(string) != mintAction {
		panic(ErrUnsupported)
	}

	mint(from, amount)
}

// Verify checks whether carrier transaction is witnessed by the trusted
// claim issuer.
func Verify() bool {
	return runtime.CheckWitness(TrustedIssuer())
}

// VerifyClaim checks that the identity holds a valid required claim and
// may mint. It panics with the verification failure reason otherwise.
func VerifyClaim(identity interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	verifyClaim(ctx, identity)
	return true
}

// Symbol returns token symbol.
func Symbol() string {
	return symbol
}

// Decimals returns token decimals. Tokens are non-divisible.
func Decimals() int {
	return 0
}

// TotalSupply returns the number of existing tokens. Burnt tokens are not
// counted.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{prefixTotalSupply})
}

// BalanceOf returns the number of tokens owned by the specified owner.
func BalanceOf(owner interop.Hash160) int {
	if !isValid(owner) {
		panic(`invalid owner`)
	}
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{prefixBalance}, owner...))
}

// TokensOf returns iterator over tokens owned by the specified owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	if !isValid(owner) {
		panic(`invalid owner`)
	}
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{prefixAccountToken}, owner...), storage.ValuesOnly)
}

// Tokens returns iterator over all existing tokens.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixToken}, storage.ValuesOnly|storage.DeserializeValues|storage.PickField1)
}

// OwnerOf returns the owner of the specified token.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getTokenState(ctx, tokenID).Owner
}

// Properties returns token name and minting height.
func Properties(tokenID []byte) map[string]any {
	ctx := storage.GetReadOnlyContext()
	ts := getTokenState(ctx, tokenID)
	return map[string]any{
		"name":     convert.ToString(symbol + " #" + string(ts.ID)),
		"mintedAt": ts.MintedAt,
	}
}

// Transfer always panics: tokens are bound to the identity that minted them.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	panic(ErrTransferForbidden)
}

// Burn destroys the token. It can be invoked only by the token owner. Burning
// does not allow the owner to mint again.
func Burn(tokenID []byte) {
	ctx := storage.GetContext()
	ts := getTokenState(ctx, tokenID)
	common.CheckOwnerWitness(ts.Owner)

	storage.Delete(ctx, append([]byte{prefixToken}, tokenID...))
	updateBalance(ctx, tokenID, ts.Owner, -1)
	updateTotalSupply(ctx, -1)

	var to interop.Hash160
	runtime.Notify("Transfer", ts.Owner, to, 1, tokenID)
}

// AddRevocation revokes claim with the specified identifier issued to the
// subject. It can be invoked only by the trusted claim issuer.
func AddRevocation(subject interop.Hash160, identifier string) {
	common.CheckIssuerWitness(TrustedIssuer())

	ctx := storage.GetContext()
	storage.Put(ctx, revocationKey(subject, identifier), true)

	runtime.Notify("RevocationChanged", subject, identifier, true)
}

// RemoveRevocation cancels claim revocation. It can be invoked only by the
// trusted claim issuer.
func RemoveRevocation(subject interop.Hash160, identifier string) {
	common.CheckIssuerWitness(TrustedIssuer())

	ctx := storage.GetContext()
	storage.Delete(ctx, revocationKey(subject, identifier))

	runtime.Notify("RevocationChanged", subject, identifier, false)
}

// IsRevoked checks whether claim with the specified identifier issued to the
// subject is revoked.
func IsRevoked(subject interop.Hash160, identifier string) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, revocationKey(subject, identifier)) != nil
}

// TrustedIssuer returns the account of the trusted claim issuer.
func TrustedIssuer() interop.Hash160 {
	return contract.CreateStandardAccount(IssuerKey())
}

// IssuerKey returns public key of the trusted claim issuer.
func IssuerKey() interop.PublicKey {
	ctx := storage.GetReadOnlyContext()
	return common.ToPublicKey(storage.Get(ctx, issuerKeyKey))
}

// RequiredIdentifier returns identifier of the claim required for minting.
func RequiredIdentifier() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, identifierKey).(string)
}

// MintPrice returns the minting price in GAS fractions.
func MintPrice() int {
	return mintPrice
}

// MaxSupply returns the maximum number of tokens ever minted.
func MaxSupply() int {
	return maxSupply
}

// HasMinted checks whether the identity has ever minted a token.
func HasMinted(identity interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{prefixMinted}, identity...)) != nil
}

// MintedCount returns the number of tokens ever minted including burnt ones.
func MintedCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{prefixMintedCount})
}

// Withdraw transfers collected GAS to the specified account. It can be invoked
// only by the trusted claim issuer.
func Withdraw(to interop.Hash160, amount int) bool {
	common.CheckIssuerWitness(TrustedIssuer())

	if amount <= 0 {
		panic("invalid amount")
	}

	return gas.Transfer(runtime.GetExecutingScriptHash(), to, amount, nil)
}

func mint(identity interop.Hash160, amount int) {
	ctx := storage.GetContext()

	if amount < mintPrice {
		panic(ErrPrice)
	}

	mintedKey := append([]byte{prefixMinted}, identity...)
	if storage.Get(ctx, mintedKey) != nil {
		panic(ErrAlreadyMinted)
	}

	n := common.GetInt(ctx, []byte{prefixMintedCount})
	if n >= maxSupply {
		panic(ErrMintedOut)
	}

	verifyClaim(ctx, identity)

	n++
	tokenID := []byte(std.Itoa(n, 10))

	storage.Put(ctx, mintedKey, true)
	storage.Put(ctx, []byte{prefixMintedCount}, n)
	common.SetSerialized(ctx, append([]byte{prefixToken}, tokenID...), TokenState{
		Owner:    identity,
		ID:       tokenID,
		MintedAt: ledger.CurrentIndex(),
	})
	updateBalance(ctx, tokenID, identity, +1)
	updateTotalSupply(ctx, +1)

	postTransfer(nil, identity, tokenID, nil)
}

// verifyClaim panics if the identity does not hold a valid claim with the
// required identifier.
func verifyClaim(ctx storage.Context, identity interop.Hash160) {
	if !isValid(identity) || management.GetContract(identity) == nil {
		panic(ErrNoClaim)
	}

	required := storage.Get(ctx, identifierKey).(string)
	claim := contract.Call(identity, "getClaim", contract.ReadOnly, required).(common.Claim)
	if len(claim.Identifier) == 0 {
		panic(ErrNoClaim)
	}

	issuerKey := common.ToPublicKey(storage.Get(ctx, issuerKeyKey))
	if !claim.Issuer.Equals(contract.CreateStandardAccount(issuerKey)) {
		panic(ErrWrongIssuer)
	}

	if !claim.Subject.Equals(identity) {
		panic(ErrWrongReceiver)
	}

	if !crypto.VerifyWithECDsa(common.ClaimDigest(claim), issuerKey, claim.Signature, crypto.Secp256r1) {
		panic(ErrInvalidSignature)
	}

	height := ledger.CurrentIndex()
	if claim.ValidFrom > 0 && height < claim.ValidFrom {
		panic(ErrNotYetValid)
	}
	if claim.ValidTo > 0 && height > claim.ValidTo {
		panic(ErrExpired)
	}

	if storage.Get(ctx, revocationKey(identity, claim.Identifier)) != nil {
		panic(ErrRevoked)
	}
}

func postTransfer(from, to interop.Hash160, tokenID []byte, data any) {
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, data)
	}
}

func getTokenState(ctx storage.Context, tokenID []byte) TokenState {
	data := storage.Get(ctx, append([]byte{prefixToken}, tokenID...))
	if data == nil {
		panic(ErrInvalidToken)
	}
	return std.Deserialize(data.([]byte)).(TokenState)
}

// updateTotalSupply adds the specified diff to the total supply.
func updateTotalSupply(ctx storage.Context, diff int) {
	key := []byte{prefixTotalSupply}
	storage.Put(ctx, key, common.GetInt(ctx, key)+diff)
}

// updateBalance updates account's balance and account's tokens.
func updateBalance(ctx storage.Context, tokenID []byte, owner interop.Hash160, diff int) {
	balanceKey := append([]byte{prefixBalance}, owner...)
	balance := common.GetInt(ctx, balanceKey) + diff

	tokenKey := append([]byte{prefixAccountToken}, owner...)
	tokenKey = append(tokenKey, tokenID...)
	if diff < 0 {
		storage.Delete(ctx, tokenKey)
	} else {
		storage.Put(ctx, tokenKey, tokenID)
	}

	if balance == 0 {
		storage.Delete(ctx, balanceKey)
	} else {
		storage.Put(ctx, balanceKey, balance)
	}
}

func revocationKey(subject interop.Hash160, identifier string) []byte {
	key := append([]byte{prefixRevocation}, subject...)
	return append(key, []byte(identifier)...)
}

// isValid returns true if the provided address is a valid Uint160.
func isValid(address interop.Hash160) bool {
	return address != nil && len(address) == interop.Hash160Len
}
