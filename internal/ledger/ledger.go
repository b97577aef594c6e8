// Package ledger defines the escrow system of record for parking spots. The
// ledger is authoritative for pricing, booking holds, and settlement; every
// state-changing call is a discrete transaction that either commits in full or
// leaves no trace.
package ledger

//go:generate go run go.uber.org/mock/mockgen -source=./ledger.go -destination=./mocks/ledger_mock.go -package=mocks

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnknownSpot         = errors.New("spot does not exist")
	ErrInvalidPrice        = errors.New("price must be a positive amount")
	ErrAlreadyBooked       = errors.New("spot is already booked")
	ErrInsufficientPayment = errors.New("payment is less than the spot price")
	ErrBookingNotEnded     = errors.New("booking has not ended")
	ErrNotHost             = errors.New("caller is not the spot host")
	ErrNothingToClaim      = errors.New("nothing to claim")
)

// State classifies a spot at a point in ledger time. Booked and Claimable are
// both rendered as occupied; the split only matters for settlement.
type State int

const (
	StateListed State = iota
	StateBooked
	StateClaimable
)

func (s State) String() string {
	switch s {
	case StateListed:
		return "listed"
	case StateBooked:
		return "booked"
	case StateClaimable:
		return "claimable"
	default:
		return "unknown"
	}
}

// Spot is the ledger record for a parking spot. Host and Location are
// immutable after listing; the booking fields cycle with each rental.
type Spot struct {
	ID             uint64
	Host           common.Address
	Location       string
	Price          *big.Int
	IsBooked       bool
	Driver         common.Address
	BookingEndTime uint64
}

// State reports the lifecycle state at the given ledger time. The claim
// boundary is inclusive: a booking is claimable at exactly BookingEndTime.
func (s Spot) State(now uint64) State {
	if !s.IsBooked {
		return StateListed
	}

	if now >= s.BookingEndTime {
		return StateClaimable
	}

	return StateBooked
}

// Tx is a submitted ledger transaction. Wait blocks until the transaction is
// confirmed or the context is cancelled; cancelling the wait does not cancel
// the transaction, which may still land.
type Tx interface {
	Hash() common.Hash
	Wait(ctx context.Context) error
}

// Ledger is the escrow contract surface. Implementations serialize competing
// writers: of two conflicting transactions exactly one commits.
type Ledger interface {
	// ListSpot creates a new spot owned by host with a sequentially assigned
	// id. Rejects non-positive prices before any state mutation.
	ListSpot(ctx context.Context, host common.Address, location string, price *big.Int) (Tx, error)

	// BookSpot places a booking hold on the spot, escrowing payment. The
	// booking end time is the current ledger time plus the rental period.
	BookSpot(ctx context.Context, driver common.Address, spotID uint64, payment *big.Int) (Tx, error)

	// ClaimPayment releases escrowed funds to the host once the booking has
	// ended, and clears the booking fields so the spot relists.
	ClaimPayment(ctx context.Context, host common.Address, spotID uint64) (Tx, error)

	// NextSpotID returns the count of spots ever listed, the exclusive upper
	// bound for enumeration.
	NextSpotID(ctx context.Context) (uint64, error)

	// GetSpot is a point read of a single spot record.
	GetSpot(ctx context.Context, spotID uint64) (Spot, error)

	// Balance reports the funds settled to an address through claims.
	Balance(ctx context.Context, address common.Address) (*big.Int, error)
}
