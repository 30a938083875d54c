package address_test

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/model/address"
)

var programID = address.MustParse("HrcYHz2aTi7YT6QJcUbsD3eEF4UDXt7qo1S12b4B9rz6")

func identity(t *testing.T, seed byte) address.Address {
	key := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	addr, err := address.FromPublicKey(key.Public().(ed25519.PublicKey))
	require.NoError(t, err)
	return addr
}

func TestAddressBase58(t *testing.T) {
	creator := identity(t, 1)

	parsed, err := address.Parse(creator.String())
	require.NoError(t, err)
	require.Equal(t, creator, parsed)

	_, err = address.Parse("0OIl")
	assert.True(t, errors.Is(err, address.ErrInvalidBase58))

	_, err = address.Parse("3mJr7AoUXx2Wqd")
	assert.True(t, errors.Is(err, address.ErrInvalidAddressLength))
}

func TestAddressJSON(t *testing.T) {
	creator := identity(t, 2)

	data, err := creator.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"`+creator.String()+`"`, string(data))

	var decoded address.Address
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.Equal(t, creator, decoded)
}

func TestIsOnCurve(t *testing.T) {
	require.True(t, address.IsOnCurve(identity(t, 3).Bytes()))
	require.False(t, address.IsOnCurve([]byte{1, 2, 3}))
}

func TestFindDerivedAddressDeterministic(t *testing.T) {
	creator := identity(t, 4)

	addr1, bump1, err := address.FindDerivedAddress(programID, []byte("poll"), creator[:])
	require.NoError(t, err)
	addr2, bump2, err := address.FindDerivedAddress(programID, []byte("poll"), creator[:])
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
	require.Equal(t, bump1, bump2)
	require.False(t, address.IsOnCurve(addr1[:]))

	recreated, err := address.CreateDerivedAddress(programID, []byte("poll"), creator[:], []byte{bump1})
	require.NoError(t, err)
	require.Equal(t, addr1, recreated)
}

func TestFindDerivedAddressInputSensitivity(t *testing.T) {
	a := identity(t, 5)
	b := identity(t, 6)
	otherProgramID := identity(t, 7)

	base, _, err := address.FindDerivedAddress(programID, []byte("vote"), a[:], b[:])
	require.NoError(t, err)

	tests := []struct {
		name      string
		programID address.Address
		seeds     [][]byte
	}{
		{"swapped seeds", programID, [][]byte{[]byte("vote"), b[:], a[:]}},
		{"other tag", programID, [][]byte{[]byte("poll"), a[:], b[:]}},
		{"other program", otherProgramID, [][]byte{[]byte("vote"), a[:], b[:]}},
		{"missing seed", programID, [][]byte{[]byte("vote"), a[:]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, _, err := address.FindDerivedAddress(tt.programID, tt.seeds...)
			require.NoError(t, err)
			require.NotEqual(t, base, addr)
		})
	}
}

func TestDerivedAddressSeedLimits(t *testing.T) {
	_, _, err := address.FindDerivedAddress(programID, make([]byte, address.MaxSeedLength+1))
	assert.True(t, errors.Is(err, address.ErrMaxSeedLengthExceeded))

	seeds := make([][]byte, address.MaxSeeds)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, _, err = address.FindDerivedAddress(programID, seeds...)
	assert.True(t, errors.Is(err, address.ErrMaxSeedsExceeded))
	assert.False(t, errors.Is(err, address.ErrMaxSeedLengthExceeded))

	_, err = address.CreateDerivedAddress(programID, seeds...)
	require.False(t, errors.Is(err, address.ErrMaxSeedsExceeded))
	require.False(t, errors.Is(err, address.ErrMaxSeedLengthExceeded))

	_, err = address.CreateDerivedAddress(programID, append(seeds, []byte{0xff})...)
	assert.True(t, errors.Is(err, address.ErrMaxSeedsExceeded))
}
