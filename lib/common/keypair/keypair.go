// Encapsulate Stellar's keypair package
//
// Member and voter identities are ed25519 public addresses in Stellar's
// strkey encoding ("G...").
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// IsValidAddress checks the given string is a well-formed public address.
func IsValidAddress(address string) bool {
	kp, err := stellar.Parse(address)
	if err != nil {
		return false
	}

	_, isFull := kp.(*stellar.Full)
	return !isFull
}
