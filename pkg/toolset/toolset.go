package toolset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"
)

const (
	FlagToolOutputJSON            = "json"
	FlagToolDescriptionOutputJSON = "format output as JSON"
)

const (
	ToolPwdHash    = "pwdhash"
	ToolEd25519Key = "ed25519key"
	ToolIdentity   = "identity"
	ToolJWTApi     = "jwt-api"
	ToolDerive     = "derive"
	ToolDBHealth   = "db-health"
)

// Secrets are the secrets some tools need, loaded by the caller from the environment.
type Secrets struct {
	JWTSecret string
}

type tool struct {
	description string
	run         func(appConfig *configuration.Configuration, secrets *Secrets, args []string) error
}

func tools() map[string]tool {
	return map[string]tool{
		ToolPwdHash:    {"generates a scrypt hash from your password and salt", hashPasswordAndSalt},
		ToolEd25519Key: {"generates an ed25519 key pair and its identity key", generateEd25519Key},
		ToolIdentity:   {"returns the identity key of an ed25519 public key", identityFromPublicKey},
		ToolJWTApi:     {"generates a JWT token for REST-API access of an identity", generateJWTApiToken},
		ToolDerive:     {"derives the poll and vote record addresses", deriveAddresses},
		ToolDBHealth:   {"checks and optionally revalidates the ledger database", checkDatabaseHealth},
	}
}

// ShouldHandleTools checks if tools were requested.
func ShouldHandleTools() bool {
	for _, arg := range os.Args[1:] {
		if strings.ToLower(arg) == "tool" || strings.ToLower(arg) == "tools" {
			return true
		}
	}
	return false
}

// HandleTools runs the requested tool and exits the program.
func HandleTools(appConfig *configuration.Configuration, secrets *Secrets) {
	args := os.Args[1:]

	for i, arg := range args {
		if strings.ToLower(arg) == "tool" || strings.ToLower(arg) == "tools" {
			args = args[i:]
			break
		}
	}

	if len(args) == 1 {
		listTools()
		os.Exit(1)
	}

	t, exists := tools()[strings.ToLower(args[1])]
	if !exists {
		fmt.Print("tool not found.\n\n")
		listTools()
		os.Exit(1)
	}

	if err := t.run(appConfig, secrets, args[2:]); err != nil {
		fmt.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}

func listTools() {
	for _, name := range []string{ToolPwdHash, ToolEd25519Key, ToolIdentity, ToolJWTApi, ToolDerive, ToolDBHealth} {
		fmt.Printf("%-15s %s\n", fmt.Sprintf("%s:", name), tools()[name].description)
	}
}

func parseFlagSet(fs *flag.FlagSet, args []string) error {

	if err := fs.Parse(args); err != nil {
		return err
	}

	// check if all parameters were parsed
	if fs.NArg() != 0 {
		return fmt.Errorf("too many arguments: %s", strings.Join(fs.Args(), " "))
	}

	return nil
}

func printJSON(obj interface{}) error {
	output, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(output))
	return nil
}
