/*
Package snapshot persists states of the deployed marketplace contracts along
with their storage items.

Snapshots allow to inspect the market offline and to reproduce the exact
contract state in tests. Each snapshot is a directory named after its ID
holding two human-readable files:

	contracts.json: JSON array of named contract states
	storage.csv:    'name,key,value' records, binary key and value base64-encoded
*/
package snapshot
