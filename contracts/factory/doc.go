/*
Factory contract deploys identity contracts and relays their ownership
notifications.

Identities deployed by the factory report every owner set change back to it,
so a single contract can be watched to follow ownership of all of them.
Identity address depends on the deploying transaction sender, so an account
deploys a single identity via the factory.

# Contract notifications

IdentityDeployed notification. Produced when a new identity is deployed.

	IdentityDeployed:
	  - name: owner
	    type: Hash160
	  - name: identity
	    type: Hash160

OwnerAction notification. Produced when an identity deployed by the factory
changes its owner set. Action is one of "added", "removeProposal" and
"removed".

	OwnerAction:
	  - name: identity
	    type: Hash160
	  - name: owner
	    type: Hash160
	  - name: actor
	    type: Hash160
	  - name: action
	    type: String
*/
package factory

/*
Contract storage model.

	# Key-value storage

	| Key                 | Value    | Description                          |
	|---------------------|----------|--------------------------------------|
	| `nef`               | []byte   | NEF of the identity contract         |
	| `manifest`          | []byte   | manifest of the identity contract    |
	| 'i' + identity      | Hash160  | deployed identity and its creator    |
*/
