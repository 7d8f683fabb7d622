/*
Package registry implements the Registry contract of the WattSwap marketplace.

Registry contract keeps marketplace participants. Anyone may register once
with a display name and a pair of independent role flags: producers sell
energy, consumers buy it. A participant may hold both roles. New accounts are
active; the registry admin (the deployer of the contract) may suspend and
reactivate them. Accounts are never removed.

# Contract notifications

UserRegistered notification. Produced when a new account is created.

	UserRegistered:
	  - name: user
	    type: Hash160
	  - name: name
	    type: String
	  - name: isProducer
	    type: Boolean
	  - name: isConsumer
	    type: Boolean

UserStatusChanged notification. Produced when the admin suspends or
reactivates an account.

	UserStatusChanged:
	  - name: user
	    type: Hash160
	  - name: isActive
	    type: Boolean
*/
package registry

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   registry admin
 - 'u' + <interop.Hash160> -> std.Serialize(User)
   registered accounts
*/
