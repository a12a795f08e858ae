/*
Issuer contract is a gated mint of non-transferable NFMe collectibles.

Each identity contract may mint a single token if it holds a claim with the
required identifier signed by the trusted issuer, bound to the identity
itself, valid at the current block height and not revoked. Minting is
triggered by GAS transfer of at least 0.1 GAS to the contract with ["mint"]
as transfer data, which identities make via Execute. No more than 10 tokens
are ever minted.

Tokens follow NEP-11 non-divisible standard except for transfers: Transfer
method always fails. Token owners can burn their tokens, but burning does not
let them mint again.

# Contract notifications

Transfer notification. Produced when a token is minted or burnt.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: tokenId
	    type: ByteArray

RevocationChanged notification. Produced when the trusted issuer revokes a
claim or cancels revocation.

	RevocationChanged:
	  - name: subject
	    type: Hash160
	  - name: identifier
	    type: String
	  - name: revoked
	    type: Boolean
*/
package issuer

/*
Contract storage model.

	# Key-value storage

	| Key                               | Value                | Description                       |
	|-----------------------------------|----------------------|-----------------------------------|
	| `issuerKey`                       | PublicKey            | trusted claim issuer key          |
	| `identifier`                      | string               | claim identifier required to mint |
	| 0x00                              | int                  | number of existing tokens         |
	| 0x01 + owner                      | int                  | owner balance                     |
	| 0x02 + owner + token ID           | token ID             | tokens of the owner               |
	| 0x21 + token ID                   | serialized TokenState| token state                       |
	| 0x30 + identity                   | bool                 | identity has minted               |
	| 0x31                              | int                  | number of tokens ever minted      |
	| 0x40 + subject + claim identifier | bool                 | revoked claim                     |
*/
