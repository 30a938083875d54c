package address

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	// Length defines the length of an address or identity key.
	Length = 32
)

var (
	// NullAddress is the all-zero address.
	NullAddress = Address{}

	ErrInvalidAddressLength = errors.New("invalid address length")
	ErrInvalidBase58        = errors.New("invalid base58 encoding")
)

// Address is either an identity key of an actor or a derived storage address.
type Address [Length]byte

// FromBytes copies b into an Address.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Length {
		return NullAddress, errors.WithMessagef(ErrInvalidAddressLength, "expected %d bytes, got %d", Length, len(b))
	}

	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// FromPublicKey returns the identity key of an ed25519 public key.
func FromPublicKey(publicKey ed25519.PublicKey) (Address, error) {
	return FromBytes(publicKey)
}

// Parse decodes a base58 encoded address.
func Parse(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return NullAddress, errors.WithMessagef(ErrInvalidBase58, "%s", err)
	}
	return FromBytes(b)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Address {
	addr, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, a[:])
	return b
}

func (a Address) IsNull() bool {
	return a == NullAddress
}

func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
