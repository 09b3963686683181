package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	"yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/helpers/apperr"
)

const testServerKey = "SB-Mid-server-test"

func signedNotification(orderID, status string) MidtransNotification {
	n := MidtransNotification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "100.00",
		TransactionStatus: status,
		TransactionID:     "trx-1",
	}
	n.SignatureKey = sha512sum(n.OrderID + n.StatusCode + n.GrossAmount + testServerKey)
	return n
}

func TestVerifySignature(t *testing.T) {
	n := signedNotification("order-1", "settlement")
	assert.True(t, VerifySignature(n, testServerKey))
	assert.False(t, VerifySignature(n, "other-key"))

	n.GrossAmount = "1.00"
	assert.False(t, VerifySignature(n, testServerKey))

	n.SignatureKey = ""
	assert.False(t, VerifySignature(n, testServerKey))
}

func TestMapMidtransStatus(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          model.PaymentStatus
		ok            bool
	}{
		{"settlement", "", model.PaymentStatusPaid, true},
		{"capture", "accept", model.PaymentStatusPaid, true},
		{"capture", "challenge", "", false},
		{"refund", "", model.PaymentStatusRefunded, true},
		{"partial_refund", "", model.PaymentStatusRefunded, true},
		{"pending", "", "", false},
		{"expire", "", "", false},
	}
	for _, tc := range cases {
		got, ok := MapMidtransStatus(MidtransNotification{TransactionStatus: tc.status, FraudStatus: tc.fraud})
		assert.Equal(t, tc.ok, ok, tc.status)
		assert.Equal(t, tc.want, got, tc.status)
	}
}

func TestHandleGatewayNotification(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	res, err := ReserveAndPay(ctx, db, student.ID, class.ClassID, model.PaymentMethodGateway, dbtest.BaseTime)
	require.NoError(t, err)
	orderID := res.Payment.PaymentID.String()

	t.Run("bad signature", func(t *testing.T) {
		n := signedNotification(orderID, "settlement")
		n.SignatureKey = "deadbeef"
		_, err := HandleGatewayNotification(ctx, db, testServerKey, n, nil, dbtest.BaseTime)
		assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "signature_key"})
	})

	t.Run("unknown order", func(t *testing.T) {
		n := signedNotification("not-a-uuid", "settlement")
		_, err := HandleGatewayNotification(ctx, db, testServerKey, n, nil, dbtest.BaseTime)
		assert.ErrorIs(t, err, apperr.ErrPaymentNotFound)
	})

	t.Run("pending keeps status", func(t *testing.T) {
		n := signedNotification(orderID, "pending")
		p, err := HandleGatewayNotification(ctx, db, testServerKey, n, []byte(`{"transaction_status":"pending"}`), dbtest.BaseTime)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	})

	t.Run("settlement marks paid and stores payload", func(t *testing.T) {
		n := signedNotification(orderID, "settlement")
		raw, _ := json.Marshal(n)
		p, err := HandleGatewayNotification(ctx, db, testServerKey, n, raw, dbtest.BaseTime)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, p.PaymentStatus)
		assert.JSONEq(t, string(raw), string(p.PaymentGatewayPayload))
	})

	t.Run("repeated settlement is ignored", func(t *testing.T) {
		n := signedNotification(orderID, "settlement")
		p, err := HandleGatewayNotification(ctx, db, testServerKey, n, []byte(`{}`), dbtest.BaseTime)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, p.PaymentStatus)
	})

	t.Run("refund", func(t *testing.T) {
		n := signedNotification(orderID, "refund")
		p, err := HandleGatewayNotification(ctx, db, testServerKey, n, []byte(`{}`), dbtest.BaseTime)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusRefunded, p.PaymentStatus)
	})

	t.Run("late settlement after refund is ignored", func(t *testing.T) {
		n := signedNotification(orderID, "settlement")
		p, err := HandleGatewayNotification(ctx, db, testServerKey, n, []byte(`{}`), dbtest.BaseTime)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusRefunded, p.PaymentStatus)
	})
}

func TestStartGatewayCheckout(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{Price: 150})

	var calls int
	var lastReq *snap.Request
	orig := createSnapTransaction
	createSnapTransaction = func(req *snap.Request) (*snap.Response, error) {
		calls++
		lastReq = req
		return &snap.Response{Token: "tok-123", RedirectURL: "https://pay.example/tok-123"}, nil
	}
	t.Cleanup(func() { createSnapTransaction = orig })

	res, err := ReserveAndPay(ctx, db, student.ID, class.ClassID, model.PaymentMethodGateway, dbtest.BaseTime)
	require.NoError(t, err)

	p, err := StartGatewayCheckout(ctx, db, res.Payment.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, p.PaymentGatewayToken)
	assert.Equal(t, "tok-123", *p.PaymentGatewayToken)
	assert.Equal(t, res.Payment.PaymentID.String(), lastReq.TransactionDetails.OrderID)
	assert.EqualValues(t, 150, lastReq.TransactionDetails.GrossAmt)

	// token lama dipakai ulang
	_, err = StartGatewayCheckout(ctx, db, res.Payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestStartGatewayCheckoutRejectsCash(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	orig := createSnapTransaction
	createSnapTransaction = func(*snap.Request) (*snap.Response, error) {
		return nil, errors.New("must not be called")
	}
	t.Cleanup(func() { createSnapTransaction = orig })

	res, err := ReserveAndPay(ctx, db, student.ID, class.ClassID, model.PaymentMethodCash, dbtest.BaseTime)
	require.NoError(t, err)

	_, err = StartGatewayCheckout(ctx, db, res.Payment.PaymentID)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "payment_method"})
}
