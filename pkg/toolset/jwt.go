package toolset

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/pkg/jwt"
	"github.com/gohornet/verdict/pkg/model/address"
)

const (
	FlagToolIdentity = "identity"
)

func generateJWTApiToken(_ *configuration.Configuration, secrets *Secrets, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	identityFlag := fs.String(FlagToolIdentity, "", "the identity key the token is issued for")
	sessionTimeoutFlag := fs.Duration("sessionTimeout", 0, "how long the token is valid, 0 means it does not expire")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolJWTApi)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nthe token is signed with the secret in VERDICT_JWT_SECRET\n")
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	identity, err := address.Parse(*identityFlag)
	if err != nil {
		return fmt.Errorf("invalid '%s': %w", FlagToolIdentity, err)
	}

	jwtAuth, err := jwt.NewAuth(*sessionTimeoutFlag, []byte(secrets.JWTSecret))
	if err != nil {
		return fmt.Errorf("JWT auth initialization failed: %w", err)
	}

	jwtToken, err := jwtAuth.IssueJWT(identity)
	if err != nil {
		return fmt.Errorf("issuing JWT token failed: %w", err)
	}

	fmt.Println("Your API JWT token: ", jwtToken)

	return nil
}
