package toolset

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/pkg/basicauth"
)

const (
	passwordEnvKey = "VERDICT_TOOL_PASSWORD"
)

type passwordEnv struct {
	Password string `env:"VERDICT_TOOL_PASSWORD"`
}

func readPasswordFromEnv() ([]byte, error) {
	cfg := &passwordEnv{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if len(cfg.Password) == 0 {
		return nil, fmt.Errorf("%s is not set", passwordEnvKey)
	}
	return []byte(cfg.Password), nil
}

func readPasswordFromStdin() ([]byte, error) {

	// get terminal state to be able to restore it in case of an interrupt
	originalTerminalState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		return nil, errors.New("failed to get terminal state")
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	defer signal.Stop(signalChan)
	go func() {
		if _, ok := <-signalChan; !ok {
			return
		}
		// reset the terminal to the original state if we receive an interrupt
		_ = term.Restore(int(syscall.Stdin), originalTerminalState)
		fmt.Println("\naborted... Bye!")
		os.Exit(1)
	}()

	fmt.Print("Enter a password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, fmt.Errorf("read password failed: %w", err)
	}

	fmt.Print("\nRe-enter your password: ")
	passwordReenter, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, fmt.Errorf("read password failed: %w", err)
	}

	if !bytes.Equal(password, passwordReenter) {
		return nil, errors.New("re-entered password doesn't match")
	}
	fmt.Println()
	return password, nil
}

func hashPasswordAndSalt(_ *configuration.Configuration, _ *Secrets, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	passwordFlag := fs.String("password", "", fmt.Sprintf("password to hash (optional). Can also be passed as %s environment variable.", passwordEnvKey))
	outputJSON := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolPwdHash)
		fs.PrintDefaults()
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	var password []byte

	if p, err := readPasswordFromEnv(); err == nil {
		password = p
	} else if len(*passwordFlag) > 0 {
		password = []byte(*passwordFlag)
	} else {
		p, err := readPasswordFromStdin()
		if err != nil {
			return err
		}
		password = p
	}

	passwordHash, passwordSalt, err := basicauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("deriving password key failed: %w", err)
	}

	if *outputJSON {
		return printJSON(struct {
			Password string `json:"passwordHash"`
			Salt     string `json:"passwordSalt"`
		}{
			Password: passwordHash,
			Salt:     passwordSalt,
		})
	}

	fmt.Printf("\nSuccess!\nYour hash: %s\nYour salt: %s\n", passwordHash, passwordSalt)

	return nil
}
