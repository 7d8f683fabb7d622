/*
Package deploy provides WattSwap contracts deployment procedure.

Contracts are deployed by a single local account which becomes their
administrator: it can update every contract, suspend Registry accounts and
receives the whole ENRG supply issued by Token contract. Market contract is
deployed last since it is bound to the addresses of the other two.
*/
package deploy
