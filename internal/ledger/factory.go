package ledger

import (
	"parkade/config"
	"parkade/shared/constant"

	"github.com/rs/zerolog/log"
)

// New builds the ledger selected by configuration: an RPC-backed contract
// binding, or the in-process ledger for development and tests.
func New(cfg *config.Config) Ledger {
	switch cfg.Ledger.Mode {
	case constant.LedgerModeRPC:
		l, err := NewRPC(cfg)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.Ledger.RPCURL).Msg("Failed to connect to ledger RPC")
		}

		log.Info().Str("contract", cfg.Ledger.ContractAddress).Msg("Connected to ledger RPC")

		return l
	default:
		log.Info().Msg("Using in-process ledger")

		return NewMemory(cfg.Ledger.RentalPeriodSeconds)
	}
}
