package types

import "encoding/hex"

// ValueIDLength is the size in bytes of a ValueID, matching the teacher's
// common.Hash sizing convention.
const ValueIDLength = 32

// ValueID is a cheap, equality-comparable digest of a Value, used to
// content-address votes and proposals. The zero ValueID is the reserved
// Nil sentinel, following the same convention as the teacher's
// nilValue common.Hash = common.Hash{} in consensus/tendermint/core/handler.go:
// embedders must guarantee that Value.ID() never returns the zero ValueID
// for a real value.
type ValueID [ValueIDLength]byte

// NilValueID is the reserved sentinel meaning "no value" (e.g. a Nil vote).
var NilValueID = ValueID{}

func (v ValueID) String() string {
	return "0x" + hex.EncodeToString(v[:])
}

// IsNil reports whether v is the NilValueID sentinel.
func (v ValueID) IsNil() bool {
	return v == NilValueID
}

// Value is an opaque candidate for decision. The embedder supplies the
// concrete type; the core only ever needs its content digest.
type Value interface {
	ID() ValueID
}
