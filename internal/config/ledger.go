package config

import (
	"fmt"

	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

// LedgerConfig points at the external ledger gateway and names the protocol accounts
// every settlement flow moves funds between. The gateway holds the operator keys;
// this service never sees them.
type LedgerConfig struct {
	BaseURL               string `mapstructure:"base-url"`
	Timeout               int    `mapstructure:"timeout"`
	TreasuryAccountID     string `mapstructure:"treasury-account-id"`
	EmissionsAccountID    string `mapstructure:"emissions-account-id"`
	InstantPoolAccountID  string `mapstructure:"instant-pool-account-id"`
	StandardPoolAccountID string `mapstructure:"standard-pool-account-id"`
	UsdcTokenID           string `mapstructure:"usdc-token-id"`
	HusdTokenID           string `mapstructure:"husd-token-id"`
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("missing ledger base url")
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("ledger timeout must be a positive integer in milliseconds")
	}

	accounts := map[string]string{
		"treasury-account-id":      cfg.TreasuryAccountID,
		"emissions-account-id":     cfg.EmissionsAccountID,
		"instant-pool-account-id":  cfg.InstantPoolAccountID,
		"standard-pool-account-id": cfg.StandardPoolAccountID,
	}
	for name, accountId := range accounts {
		if !utils.IsValidAccountID(accountId) {
			return fmt.Errorf("invalid ledger %s: %q", name, accountId)
		}
	}

	if cfg.UsdcTokenID == "" {
		return fmt.Errorf("missing usdc token id")
	}

	if cfg.HusdTokenID == "" {
		return fmt.Errorf("missing husd token id")
	}

	return nil
}
