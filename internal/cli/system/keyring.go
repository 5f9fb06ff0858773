package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitpulse/internal/cli"
	"github.com/julianstephens/habitpulse/internal/keyring"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the Gemini API key in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored Gemini API key (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the Gemini API key from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
}

// KeyringSetCmd stores the insight API key in the OS keyring
type KeyringSetCmd struct {
	Key string `arg:"" help:"Gemini API key."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetAPIKey(cmd.Key); err != nil {
		return err
	}

	ctx.Println("✓ API key stored successfully in OS keyring")
	ctx.Println("  You can now use 'habitpulse insight' without --api-key")
	return nil
}

// KeyringGetCmd prints the stored key with all but the last characters masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.GetAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring. Use 'habitpulse keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve API key from keyring: %w", err)
	}

	ctx.Println("API key retrieved from keyring:")
	ctx.Println(keyring.Mask(key))
	return nil
}

// KeyringDeleteCmd removes the insight API key from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}

	ctx.Println("✓ API key deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	ctx.Println("✓ OS keyring is available")
	_, err := keyring.GetAPIKey()
	if err == nil {
		ctx.Println("✓ API key is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println("ℹ No API key stored in keyring")
	}
	return nil
}
