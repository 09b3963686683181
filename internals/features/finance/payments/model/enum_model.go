package model

import (
	"fmt"
	"strings"
)

type PaymentStatus string
type PaymentMethod string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodGateway      PaymentMethod = "gateway"
	PaymentMethodOther        PaymentMethod = "other"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo: pending -> paid|refunded, paid -> refunded. refunded terminal.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusPaid || next == PaymentStatusRefunded
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	case PaymentStatusRefunded:
		return false
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodGateway, PaymentMethodOther:
		return true
	}
	return false
}

// DefaultStatus: gateway menunggu callback, metode lain langsung lunas di meja resepsionis.
func (m PaymentMethod) DefaultStatus() PaymentStatus {
	switch m {
	case PaymentMethodGateway:
		return PaymentStatusPending
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodOther:
		return PaymentStatusPaid
	}
	return PaymentStatusPaid
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return st, nil
}

// ParsePaymentMethod: kosong -> cash (default lama di meja resepsionis).
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return PaymentMethodCash, nil
	}
	m := PaymentMethod(raw)
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}
