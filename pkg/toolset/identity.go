package toolset

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/pkg/model/address"
)

const (
	FlagToolPublicKey = "publicKey"
)

type identityInfo struct {
	PrivateKey string `json:"privateKey,omitempty"`
	PublicKey  string `json:"publicKey"`
	Identity   string `json:"identity"`
}

func printIdentityInfo(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, outputJSON bool) error {

	identity, err := address.FromPublicKey(publicKey)
	if err != nil {
		return err
	}

	info := identityInfo{
		PublicKey: hex.EncodeToString(publicKey),
		Identity:  identity.String(),
	}
	if privateKey != nil {
		info.PrivateKey = hex.EncodeToString(privateKey)
	}

	if outputJSON {
		return printJSON(info)
	}

	if len(info.PrivateKey) > 0 {
		fmt.Println("Your ed25519 private key: ", info.PrivateKey)
	}
	fmt.Println("Your ed25519 public key:  ", info.PublicKey)
	fmt.Println("Your identity key:        ", info.Identity)

	return nil
}

func generateEd25519Key(_ *configuration.Configuration, _ *Secrets, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolEd25519Key)
		fs.PrintDefaults()
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return err
	}

	return printIdentityInfo(privateKey, publicKey, *outputJSONFlag)
}

// parseEd25519PublicKey parses a hex encoded ed25519 public key.
func parseEd25519PublicKey(key string) (ed25519.PublicKey, error) {
	publicKey, err := hex.DecodeString(key)
	if err != nil {
		return nil, errors.Wrap(err, "public key must be hex encoded")
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, errors.Errorf("public key must have %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}
	return publicKey, nil
}

func identityFromPublicKey(_ *configuration.Configuration, _ *Secrets, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	publicKeyFlag := fs.String(FlagToolPublicKey, "", "an ed25519 public key")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolIdentity)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nexample: %s --%s %s\n", ToolIdentity, FlagToolPublicKey, "[PUB_KEY]")
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	publicKey, err := parseEd25519PublicKey(*publicKeyFlag)
	if err != nil {
		return fmt.Errorf("can't decode '%s': %w", FlagToolPublicKey, err)
	}

	return printIdentityInfo(nil, publicKey, *outputJSONFlag)
}
