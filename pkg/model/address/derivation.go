package address

import (
	"filippo.io/edwards25519"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	// MaxSeeds is the maximum amount of seeds a derived address can be created from, including the bump seed.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivedAddressMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedsExceeded      = errors.New("max seeds exceeded")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrOnCurve               = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("unable to find a viable bump seed")
)

// IsOnCurve reports whether b is a valid compressed ed25519 point.
// Derived addresses must never be on the curve, so no private key can exist for them.
func IsOnCurve(b []byte) bool {
	if len(b) != Length {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateDerivedAddress hashes the seeds and the program ID into an address.
// It fails with ErrOnCurve if the result is a valid curve point.
func CreateDerivedAddress(programID Address, seeds ...[]byte) (Address, error) {
	if len(seeds) > MaxSeeds {
		return NullAddress, errors.WithMessagef(ErrMaxSeedsExceeded, "%d seeds given, max %d", len(seeds), MaxSeeds)
	}

	hash, err := blake2b.New256(nil)
	if err != nil {
		return NullAddress, err
	}

	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return NullAddress, errors.WithMessagef(ErrMaxSeedLengthExceeded, "seed %d has %d bytes, max %d", i, len(seed), MaxSeedLength)
		}
		_, _ = hash.Write(seed)
	}
	_, _ = hash.Write(programID[:])
	_, _ = hash.Write([]byte(derivedAddressMarker))

	var addr Address
	copy(addr[:], hash.Sum(nil))

	if IsOnCurve(addr[:]) {
		return NullAddress, ErrOnCurve
	}

	return addr, nil
}

// FindDerivedAddress searches for the first bump seed, counting down from 255,
// that yields an off-curve derived address for the given seeds.
func FindDerivedAddress(programID Address, seeds ...[]byte) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return NullAddress, 0, errors.WithMessagef(ErrMaxSeedsExceeded, "%d seeds given, max %d", len(seeds), MaxSeeds-1)
	}

	seedsWithBump := make([][]byte, len(seeds)+1)
	copy(seedsWithBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		seedsWithBump[len(seeds)] = []byte{uint8(bump)}

		addr, err := CreateDerivedAddress(programID, seedsWithBump...)
		if err != nil {
			if errors.Is(err, ErrOnCurve) {
				continue
			}
			return NullAddress, 0, err
		}
		return addr, uint8(bump), nil
	}

	return NullAddress, 0, ErrNoViableBump
}
