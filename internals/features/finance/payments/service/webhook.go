package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/helpers/apperr"
)

/* =======================================================================
   Webhook Midtrans
======================================================================= */

type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, partial_refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// VerifySignature: SHA512(order_id + status_code + gross_amount + ServerKey)
func VerifySignature(n MidtransNotification, serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || serverKey == "" {
		return false
	}
	return sha512sum(n.OrderID+n.StatusCode+n.GrossAmount+serverKey) == want
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// MapMidtransStatus: status midtrans -> status internal. ok=false berarti tidak ada perubahan.
func MapMidtransStatus(n MidtransNotification) (model.PaymentStatus, bool) {
	switch strings.ToLower(n.TransactionStatus) {
	case "settlement":
		return model.PaymentStatusPaid, true
	case "capture":
		// kartu kredit: hanya fraud=accept yang dianggap lunas
		fraud := strings.ToLower(n.FraudStatus)
		if fraud == "" || fraud == "accept" {
			return model.PaymentStatusPaid, true
		}
		return "", false
	case "refund", "partial_refund":
		return model.PaymentStatusRefunded, true
	}
	return "", false
}

// HandleGatewayNotification memverifikasi signature, menyimpan payload mentah,
// lalu menerapkan transisi status. Transisi yang tidak valid dicatat dan diabaikan.
func HandleGatewayNotification(ctx context.Context, db *gorm.DB, serverKey string, n MidtransNotification, raw []byte, now time.Time) (*model.PaymentModel, error) {
	if !VerifySignature(n, serverKey) {
		return nil, apperr.Validation("signature_key", "invalid signature")
	}
	paymentID, err := uuid.Parse(strings.TrimSpace(n.OrderID))
	if err != nil {
		return nil, apperr.NotFound("payment")
	}

	if err := db.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("payment_id = ?", paymentID).
		Update("payment_gateway_payload", datatypes.JSON(raw)).Error; err != nil {
		return nil, fmt.Errorf("store gateway payload: %w", err)
	}

	next, ok := MapMidtransStatus(n)
	if !ok {
		log.Printf("[MIDTRANS] order=%s status=%s fraud=%s: no change", n.OrderID, n.TransactionStatus, n.FraudStatus)
		return GetPayment(ctx, db, paymentID)
	}

	p, err := UpdatePaymentStatus(ctx, db, paymentID, next, now)
	if err != nil {
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindInvalidStateTransition {
			log.Printf("[MIDTRANS] order=%s ignored: %v", n.OrderID, err)
			return GetPayment(ctx, db, paymentID)
		}
		return nil, err
	}
	log.Printf("[MIDTRANS] order=%s -> %s", n.OrderID, p.PaymentStatus)
	return p, nil
}
