package checkout

import (
	"context"
	"errors"

	"github.com/grocerlink/payment-service/internal/dto"
)

type State int

const (
	StateMethodSelection State = iota
	StateCardPayment
	StateManualTransfer
	StateProofUpload
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateMethodSelection:
		return "method-selection"
	case StateCardPayment:
		return "card-payment"
	case StateManualTransfer:
		return "manual-transfer"
	case StateProofUpload:
		return "proof-upload"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidTransition = errors.New("checkout: invalid state transition")
	ErrAlreadySubmitted  = errors.New("checkout: attempt already submitted")
)

// PaymentAttempt is transient, held for one checkout pass and discarded once
// an order exists or the customer backs out.
type PaymentAttempt struct {
	Method           Method
	Amount           int64
	Breakdown        dto.Breakdown
	OrderDraft       dto.OrderDraft
	GatewayReference string
	ProofReference   string
	Last4            string
	Brand            string
}

type Finalizer interface {
	FinalizeOrder(ctx context.Context, req dto.FinalizeOrderRequest) (dto.OrderResponse, bool, error)
}

// Machine sequences one checkout attempt:
//
//	method-selection -> card-payment ----------------> submitted
//	method-selection -> manual-transfer -> proof-upload -> submitted
//
// with a single back edge returning to method-selection from either payment
// branch. A back transition discards the attempt's references; retrying a
// failed finalize means a fresh attempt with a new hold or proof, never a
// silent resubmission of the same reference.
type Machine struct {
	state     State
	attempt   PaymentAttempt
	finalizer Finalizer
	submitted bool
}

func CreateMachine(draft dto.OrderDraft, breakdown dto.Breakdown, finalizer Finalizer) *Machine {
	return &Machine{
		state: StateMethodSelection,
		attempt: PaymentAttempt{
			OrderDraft: draft,
			Breakdown:  breakdown,
			Amount:     draft.TotalAmount,
		},
		finalizer: finalizer,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Attempt() PaymentAttempt {
	return m.attempt
}

func (m *Machine) SelectMethod(method Method) error {
	if m.state != StateMethodSelection {
		return ErrInvalidTransition
	}

	switch method {
	case MethodCard:
		m.state = StateCardPayment
	case MethodInterac:
		m.state = StateManualTransfer
	default:
		return ErrInvalidTransition
	}

	m.attempt.Method = method
	return nil
}

func (m *Machine) Back() error {
	switch m.state {
	case StateCardPayment, StateManualTransfer, StateProofUpload:
	default:
		return ErrInvalidTransition
	}

	m.state = StateMethodSelection
	m.attempt.Method = ""
	m.attempt.GatewayReference = ""
	m.attempt.ProofReference = ""
	m.attempt.Last4 = ""
	m.attempt.Brand = ""
	return nil
}

func (m *Machine) CompleteCardPayment(result CardPaymentResult) error {
	if m.state != StateCardPayment {
		return ErrInvalidTransition
	}

	m.attempt.GatewayReference = result.GatewayReference
	m.attempt.Last4 = result.Last4
	m.attempt.Brand = result.Brand
	m.state = StateSubmitted
	return nil
}

func (m *Machine) ContinueToProofUpload() error {
	if m.state != StateManualTransfer {
		return ErrInvalidTransition
	}

	m.state = StateProofUpload
	return nil
}

func (m *Machine) CompleteProofUpload(proofReference string) error {
	if m.state != StateProofUpload {
		return ErrInvalidTransition
	}

	m.attempt.ProofReference = proofReference
	m.state = StateSubmitted
	return nil
}

// Submit fires the finalize call exactly once. The machine never retries it;
// a failed finalize is recovered by starting over from method-selection.
func (m *Machine) Submit(ctx context.Context) (dto.OrderResponse, bool, error) {
	if m.state != StateSubmitted {
		return dto.OrderResponse{}, false, ErrInvalidTransition
	}
	if m.submitted {
		return dto.OrderResponse{}, false, ErrAlreadySubmitted
	}
	m.submitted = true

	reference := m.attempt.GatewayReference
	if m.attempt.Method == MethodInterac {
		reference = m.attempt.ProofReference
	}

	return m.finalizer.FinalizeOrder(ctx, dto.FinalizeOrderRequest{
		PaymentReference: reference,
		Method:           string(m.attempt.Method),
		Breakdown:        m.attempt.Breakdown,
		OrderDraft:       m.attempt.OrderDraft,
	})
}
