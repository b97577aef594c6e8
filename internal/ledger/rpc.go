package ledger

import (
	"context"
	"fmt"
	"math/big"
	"parkade/config"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
)

// contractABI is the escrow contract surface consumed by this service.
const contractABI = `[
	{"type":"function","name":"listSpot","stateMutability":"nonpayable","inputs":[{"name":"location","type":"string"},{"name":"price","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"bookSpot","stateMutability":"payable","inputs":[{"name":"spotId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"claimPayment","stateMutability":"nonpayable","inputs":[{"name":"spotId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"nextSpotId","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getSpot","stateMutability":"view","inputs":[{"name":"spotId","type":"uint256"}],"outputs":[{"name":"id","type":"uint256"},{"name":"host","type":"address"},{"name":"location","type":"string"},{"name":"price","type":"uint256"},{"name":"isBooked","type":"bool"},{"name":"driver","type":"address"},{"name":"bookingEndTime","type":"uint256"}]}
]`

// RPCLedger talks to a deployed escrow contract over JSON-RPC. Transactions
// are signed with the single configured service key, so every state-changing
// call must come from that key's address.
type RPCLedger struct {
	client     *ethclient.Client
	contract   *bind.BoundContract
	opts       *bind.TransactOpts
	signerAddr common.Address
}

func NewRPC(cfg *config.Config) (*RPCLedger, error) {
	client, err := ethclient.Dial(cfg.Ledger.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ledger rpc: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Ledger.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.Ledger.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}

	address := common.HexToAddress(cfg.Ledger.ContractAddress)
	contract := bind.NewBoundContract(address, parsed, client, client, client)

	log.Info().
		Str("contract", address.Hex()).
		Str("signer", opts.From.Hex()).
		Msg("Connected to escrow contract")

	return &RPCLedger{
		client:     client,
		contract:   contract,
		opts:       opts,
		signerAddr: opts.From,
	}, nil
}

// ListSpot implements Ledger.
func (l *RPCLedger) ListSpot(ctx context.Context, host common.Address, location string, price *big.Int) (Tx, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	if err := l.checkSigner(host); err != nil {
		return nil, err
	}

	tx, err := l.contract.Transact(l.txOpts(ctx, nil), "listSpot", location, price)
	if err != nil {
		return nil, mapRevert(err)
	}

	return &pendingTx{tx: tx, client: l.client}, nil
}

// BookSpot implements Ledger.
func (l *RPCLedger) BookSpot(ctx context.Context, driver common.Address, spotID uint64, payment *big.Int) (Tx, error) {
	if err := l.checkSigner(driver); err != nil {
		return nil, err
	}

	tx, err := l.contract.Transact(l.txOpts(ctx, payment), "bookSpot", new(big.Int).SetUint64(spotID))
	if err != nil {
		return nil, mapRevert(err)
	}

	return &pendingTx{tx: tx, client: l.client}, nil
}

// ClaimPayment implements Ledger.
func (l *RPCLedger) ClaimPayment(ctx context.Context, host common.Address, spotID uint64) (Tx, error) {
	if err := l.checkSigner(host); err != nil {
		return nil, err
	}

	tx, err := l.contract.Transact(l.txOpts(ctx, nil), "claimPayment", new(big.Int).SetUint64(spotID))
	if err != nil {
		return nil, mapRevert(err)
	}

	return &pendingTx{tx: tx, client: l.client}, nil
}

// NextSpotID implements Ledger.
func (l *RPCLedger) NextSpotID(ctx context.Context) (uint64, error) {
	var out []interface{}

	err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "nextSpotId")
	if err != nil {
		return 0, fmt.Errorf("failed to read next spot id: %w", err)
	}

	next, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected nextSpotId return type %T", out[0])
	}

	return next.Uint64(), nil
}

// GetSpot implements Ledger.
func (l *RPCLedger) GetSpot(ctx context.Context, spotID uint64) (Spot, error) {
	var out []interface{}

	err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getSpot", new(big.Int).SetUint64(spotID))
	if err != nil {
		return Spot{}, mapRevert(err)
	}

	return decodeSpot(out)
}

// decodeSpot maps getSpot's flat return values onto a Spot. The contract
// returns seven named values, not a struct, so each slot decodes on its own.
func decodeSpot(out []interface{}) (Spot, error) {
	if len(out) != 7 {
		return Spot{}, fmt.Errorf("unexpected getSpot return arity %d", len(out))
	}

	return Spot{
		ID:             (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(),
		Host:           *abi.ConvertType(out[1], new(common.Address)).(*common.Address),
		Location:       *abi.ConvertType(out[2], new(string)).(*string),
		Price:          *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		IsBooked:       *abi.ConvertType(out[4], new(bool)).(*bool),
		Driver:         *abi.ConvertType(out[5], new(common.Address)).(*common.Address),
		BookingEndTime: (*abi.ConvertType(out[6], new(*big.Int)).(**big.Int)).Uint64(),
	}, nil
}

// Balance implements Ledger by reading the chain balance at the latest block.
func (l *RPCLedger) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := l.client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	return balance, nil
}

func (l *RPCLedger) txOpts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	opts := *l.opts
	opts.Context = ctx
	opts.Value = value

	return &opts
}

func (l *RPCLedger) checkSigner(caller common.Address) error {
	if caller != l.signerAddr {
		return fmt.Errorf("caller %s does not match the configured signing key %s", caller.Hex(), l.signerAddr.Hex())
	}

	return nil
}

// mapRevert translates contract revert reasons into sentinel errors so
// callers get the same taxonomy from both ledger backends.
func mapRevert(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "already booked"):
		return ErrAlreadyBooked
	case strings.Contains(msg, "insufficient"):
		return ErrInsufficientPayment
	case strings.Contains(msg, "not ended"):
		return ErrBookingNotEnded
	case strings.Contains(msg, "only the host"), strings.Contains(msg, "not the host"):
		return ErrNotHost
	case strings.Contains(msg, "nothing to claim"):
		return ErrNothingToClaim
	case strings.Contains(msg, "does not exist"), strings.Contains(msg, "invalid spot"):
		return ErrUnknownSpot
	default:
		return fmt.Errorf("ledger transaction failed: %w", err)
	}
}

// pendingTx wraps a submitted transaction awaiting inclusion.
type pendingTx struct {
	tx     *types.Transaction
	client *ethclient.Client
}

func (t *pendingTx) Hash() common.Hash {
	return t.tx.Hash()
}

// Wait blocks until the transaction is mined. A reverted receipt is an error:
// the caller must not treat the operation as committed.
func (t *pendingTx) Wait(ctx context.Context) error {
	receipt, err := bind.WaitMined(ctx, t.client, t.tx)
	if err != nil {
		return fmt.Errorf("failed waiting for transaction %s: %w", t.tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted", t.tx.Hash().Hex())
	}

	return nil
}
