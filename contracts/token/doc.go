/*
Package token implements the energy Token contract of the WattSwap marketplace.

Token contract is a NEP-17 compatible ledger of energy credits (ENRG). The
whole supply is issued once, at deployment, to the account that sends the
deployment transaction; there is no way to mint or burn afterwards, so the sum
of all balances always equals TotalSupply.

Besides the NEP-17 methods the contract implements delegated spending: an
owner may Approve a spender for some amount and the spender may then move up
to that amount from the owner's balance with TransferFrom. Market contract
relies on it to deliver energy from sellers to buyers during settlement.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Produced every time an allowance is set.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   contract admin, the deployer
 - 's' -> int
   total supply
 - 'b' + <interop.Hash160> -> int
   balance of the account, missing for zero balances
 - 'a' + <owner interop.Hash160> + <spender interop.Hash160> -> int
   allowance, missing for zero allowances
*/
