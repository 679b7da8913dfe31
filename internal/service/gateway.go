package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ChargeResult is the gateway's answer to a charge attempt.
type ChargeResult struct {
	Success       bool
	TransactionID string
	Detail        string
}

// RefundResult is the gateway's answer to a refund attempt.
type RefundResult struct {
	Success  bool
	RefundID string
	Detail   string
}

// PaymentGateway is the interface for an external payment provider.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, bookingID string) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount float64) (*RefundResult, error)
}

// SimulatedGateway is a stand-in payment provider. Charges succeed about
// 90% of the time and refunds about 95%, so failure paths stay exercised
// without a real provider.
type SimulatedGateway struct {
	chargeSuccessRate float64
	refundSuccessRate float64
	latency           time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedGateway creates a gateway with the default success rates.
func NewSimulatedGateway(latency time.Duration) *SimulatedGateway {
	return &SimulatedGateway{
		chargeSuccessRate: 0.90,
		refundSuccessRate: 0.95,
		latency:           latency,
		rnd:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge simulates charging the amount for a booking.
func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, bookingID string) (*ChargeResult, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	if g.roll() >= g.chargeSuccessRate {
		return &ChargeResult{
			Success: false,
			Detail:  "card declined by issuing bank",
		}, nil
	}

	return &ChargeResult{
		Success:       true,
		TransactionID: g.reference("TXN"),
	}, nil
}

// Refund simulates refunding a previously charged transaction.
func (g *SimulatedGateway) Refund(ctx context.Context, transactionID string, amount float64) (*RefundResult, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	if g.roll() >= g.refundSuccessRate {
		return &RefundResult{
			Success: false,
			Detail:  "refund rejected by provider",
		}, nil
	}

	return &RefundResult{
		Success:  true,
		RefundID: g.reference("REF"),
	}, nil
}

func (g *SimulatedGateway) wait(ctx context.Context) error {
	if g.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(g.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *SimulatedGateway) roll() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64()
}

func (g *SimulatedGateway) reference(prefix string) string {
	g.mu.Lock()
	suffix := randomBase36WithRand(g.rnd, 9)
	g.mu.Unlock()
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}

func randomBase36WithRand(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[rnd.Intn(len(base36Alphabet))]
	}
	return string(b)
}
