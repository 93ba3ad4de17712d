package types

import (
	"bytes"
	"encoding/hex"
)

// AddressLength is the size in bytes of an Address, matching the teacher's
// common.Address sizing convention.
const AddressLength = 20

// Address is an opaque validator identity. It is comparable and orderable so
// it can be used as a map key and sorted for deterministic iteration.
type Address [AddressLength]byte

// NilAddress is the zero Address, never a valid validator identity.
var NilAddress = Address{}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Compare returns -1, 0 or 1 analogous to bytes.Compare.
func (a Address) Compare(o Address) int {
	return bytes.Compare(a[:], o[:])
}

// IsNil reports whether a is the zero Address.
func (a Address) IsNil() bool {
	return a == NilAddress
}

// BytesToAddress right-aligns b into an Address, truncating on the left if
// b is longer than AddressLength.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}
