package basicauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	// SaltLength is the length of the password salt in bytes.
	SaltLength = 32
)

var (
	ErrEmptyUsername       = errors.New("username must not be empty")
	ErrInvalidPasswordHash = errors.New("password hash must be a hex encoded 32 byte scrypt key")
	ErrInvalidPasswordSalt = errors.New("password salt must be hex encoded 32 bytes")
)

// SaltGenerator generates a crypto-secure random salt.
func SaltGenerator(length int) ([]byte, error) {
	salt := make([]byte, length)

	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	return salt, nil
}

// DerivePasswordKey calculates the key based on password and salt.
func DerivePasswordKey(password []byte, salt []byte) ([]byte, error) {
	return scrypt.Key(password, salt, 1<<15, 8, 1, 32)
}

// HashPassword derives the key of password with a new random salt.
// It returns the hex encoded key and salt.
func HashPassword(password []byte) (string, string, error) {
	salt, err := SaltGenerator(SaltLength)
	if err != nil {
		return "", "", err
	}

	key, err := DerivePasswordKey(password, salt)
	if err != nil {
		return "", "", err
	}

	return hex.EncodeToString(key), hex.EncodeToString(salt), nil
}

// VerifyPassword verifies if the password is correct.
func VerifyPassword(password []byte, salt []byte, storedPasswordKey []byte) (bool, error) {

	dk, err := DerivePasswordKey(password, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(dk, storedPasswordKey) == 1, nil
}

// BasicAuth checks credentials against a single user with a scrypt password key.
type BasicAuth struct {
	username     string
	passwordHash []byte
	passwordSalt []byte
}

func NewBasicAuth(username string, passwordHashHex string, passwordSaltHex string) (*BasicAuth, error) {
	if len(username) == 0 {
		return nil, ErrEmptyUsername
	}

	passwordHash, err := hex.DecodeString(passwordHashHex)
	if err != nil || len(passwordHash) != 32 {
		return nil, ErrInvalidPasswordHash
	}

	passwordSalt, err := hex.DecodeString(passwordSaltHex)
	if err != nil || len(passwordSalt) != SaltLength {
		return nil, ErrInvalidPasswordSalt
	}

	return &BasicAuth{
		username:     username,
		passwordHash: passwordHash,
		passwordSalt: passwordSalt,
	}, nil
}

func (b *BasicAuth) VerifyUsernameAndPassword(username string, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(b.username)) != 1 {
		return false
	}

	// error is ignored because it returns false in case it can't be derived
	valid, _ := VerifyPassword([]byte(password), b.passwordSalt, b.passwordHash)
	return valid
}

// Middleware rejects requests without valid credentials.
func (b *BasicAuth) Middleware() echo.MiddlewareFunc {
	return middleware.BasicAuth(func(username string, password string, _ echo.Context) (bool, error) {
		return b.VerifyUsernameAndPassword(username, password), nil
	})
}
