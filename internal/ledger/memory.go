package ledger

import (
	"context"
	"encoding/binary"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MemoryLedger is an in-process escrow ledger. A single mutex stands in for
// the chain's serialized transaction execution: of two competing bookings
// exactly one commits and the other observes the committed state.
type MemoryLedger struct {
	mu sync.Mutex

	now          func() uint64
	rentalPeriod uint64
	nonce        uint64

	spots    []*Spot
	escrow   map[uint64]*big.Int
	balances map[common.Address]*big.Int
}

// NewMemory returns a ledger backed by process memory using wall-clock time.
// rentalPeriod is the fixed booking duration in seconds.
func NewMemory(rentalPeriod uint64) *MemoryLedger {
	return NewMemoryWithClock(rentalPeriod, func() uint64 {
		return uint64(time.Now().Unix())
	})
}

// NewMemoryWithClock is NewMemory with an injected time source.
func NewMemoryWithClock(rentalPeriod uint64, now func() uint64) *MemoryLedger {
	return &MemoryLedger{
		now:          now,
		rentalPeriod: rentalPeriod,
		escrow:       map[uint64]*big.Int{},
		balances:     map[common.Address]*big.Int{},
	}
}

// ListSpot implements Ledger.
func (l *MemoryLedger) ListSpot(_ context.Context, host common.Address, location string, price *big.Int) (Tx, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	spot := &Spot{
		ID:       uint64(len(l.spots)),
		Host:     host,
		Location: location,
		Price:    new(big.Int).Set(price),
	}
	l.spots = append(l.spots, spot)

	return l.confirmedTx(), nil
}

// BookSpot implements Ledger.
func (l *MemoryLedger) BookSpot(_ context.Context, driver common.Address, spotID uint64, payment *big.Int) (Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	spot, err := l.spot(spotID)
	if err != nil {
		return nil, err
	}

	if spot.IsBooked {
		return nil, ErrAlreadyBooked
	}

	if payment == nil || payment.Cmp(spot.Price) < 0 {
		return nil, ErrInsufficientPayment
	}

	spot.IsBooked = true
	spot.Driver = driver
	spot.BookingEndTime = l.now() + l.rentalPeriod
	l.escrow[spotID] = new(big.Int).Set(payment)

	return l.confirmedTx(), nil
}

// ClaimPayment implements Ledger.
func (l *MemoryLedger) ClaimPayment(_ context.Context, host common.Address, spotID uint64) (Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	spot, err := l.spot(spotID)
	if err != nil {
		return nil, err
	}

	if spot.Host != host {
		return nil, ErrNotHost
	}

	if !spot.IsBooked {
		return nil, ErrNothingToClaim
	}

	if l.now() < spot.BookingEndTime {
		return nil, ErrBookingNotEnded
	}

	held := l.escrow[spotID]
	delete(l.escrow, spotID)

	balance, ok := l.balances[host]
	if !ok {
		balance = new(big.Int)
		l.balances[host] = balance
	}
	balance.Add(balance, held)

	// Clearing the booking fields returns the spot to the listed state so it
	// can be booked again.
	spot.IsBooked = false
	spot.Driver = common.Address{}
	spot.BookingEndTime = 0

	return l.confirmedTx(), nil
}

// NextSpotID implements Ledger.
func (l *MemoryLedger) NextSpotID(_ context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return uint64(len(l.spots)), nil
}

// GetSpot implements Ledger.
func (l *MemoryLedger) GetSpot(_ context.Context, spotID uint64) (Spot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	spot, err := l.spot(spotID)
	if err != nil {
		return Spot{}, err
	}

	out := *spot
	out.Price = new(big.Int).Set(spot.Price)

	return out, nil
}

// Balance implements Ledger. For the in-process ledger this is the total an
// address has settled through claims.
func (l *MemoryLedger) Balance(_ context.Context, address common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[address]
	if !ok {
		return new(big.Int), nil
	}

	return new(big.Int).Set(balance), nil
}

func (l *MemoryLedger) spot(spotID uint64) (*Spot, error) {
	if spotID >= uint64(len(l.spots)) {
		return nil, ErrUnknownSpot
	}

	return l.spots[spotID], nil
}

func (l *MemoryLedger) confirmedTx() Tx {
	l.nonce++

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], l.nonce)

	return confirmedTx{hash: crypto.Keccak256Hash(buf[:])}
}

// confirmedTx is a transaction that committed synchronously under the ledger
// mutex, so Wait returns immediately.
type confirmedTx struct {
	hash common.Hash
}

func (t confirmedTx) Hash() common.Hash {
	return t.hash
}

func (t confirmedTx) Wait(_ context.Context) error {
	return nil
}
