/*
Identity contract is a self-sovereign identity account controlled by a set of
owners.

Identity stores claims attested by third-party issuers, lets its owners
execute calls to other contracts on its behalf and manages the owner set
itself. New owners are added by any existing owner, but removal of an owner
requires confirmations from the majority of current owners.

Claims are stored unverified. Contracts consuming a claim, like the gated mint
issuer, check issuer signature, subject binding and validity window on their
own.

# Contract notifications

OwnershipChanged notification. Produced on owner set changes and removal
proposals. Action is one of "added", "removeProposal" and "removed".

	OwnershipChanged:
	  - name: candidate
	    type: Hash160
	  - name: actor
	    type: Hash160
	  - name: action
	    type: String

ClaimChanged notification. Produced when an owner sets or removes a claim.
Action is either "added" or "removed".

	ClaimChanged:
	  - name: identifier
	    type: String
	  - name: actor
	    type: Hash160
	  - name: action
	    type: String

Executed notification. Produced after each successful Execute call.

	Executed:
	  - name: operation
	    type: Integer
	  - name: target
	    type: Hash160
	  - name: value
	    type: Integer
	  - name: method
	    type: String
*/
package identity

/*
Contract storage model.

	# Key-value storage

	| Key                          | Value                 | Description                         |
	|------------------------------|-----------------------|-------------------------------------|
	| `owners`                     | serialized []Hash160  | owners in the order of addition     |
	| `factory`                    | Hash160               | relay factory, absent if standalone |
	| `claims`                     | serialized []string   | claim identifiers                   |
	| `lock`                       | bool                  | set while Execute is in progress    |
	| 'p' + candidate              | serialized Ballot     | removal proposals of the candidate  |
	| 'c' + identifier             | serialized Claim      | stored claim                        |
*/
