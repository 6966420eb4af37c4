package core

import "context"

type (
	// PaymentIntentRequest is what a PaymentProvider needs to create a charge intent.
	PaymentIntentRequest struct {
		Amount             int64 // smallest currency unit
		Currency           string
		PaymentMethodTypes []string
	}

	// PaymentProvider is any external service that can create payment intents.
	PaymentProvider interface {
		// CreatePaymentIntent returns the client secret of the created intent.
		CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (string, error)
	}
)
