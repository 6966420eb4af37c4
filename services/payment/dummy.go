package paymentsvc

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/the-user01/Study-Platform-Server/core"
)

// DummyProvider records intent requests and hands out fake client secrets.
// Setting Err makes every call fail with it.
type DummyProvider struct {
	Err error

	mu       sync.Mutex
	requests []core.PaymentIntentRequest
}

var _ core.PaymentProvider = (*DummyProvider)(nil)

func NewDummyProvider() *DummyProvider {
	return &DummyProvider{}
}

func (p *DummyProvider) CreatePaymentIntent(_ context.Context, req core.PaymentIntentRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.Err != nil {
		return "", p.Err
	}
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12], nil
}

// Requests returns a copy of every request received so far.
func (p *DummyProvider) Requests() []core.PaymentIntentRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.PaymentIntentRequest(nil), p.requests...)
}

// New picks Stripe when a secret key is configured, the dummy provider otherwise.
func New(conf *core.Config) core.PaymentProvider {
	if conf.Payment.StripeSecretKey != "" && !conf.TestMode {
		return NewStripeProvider(conf)
	}
	return NewDummyProvider()
}
