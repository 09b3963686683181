package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/finance/payments/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// ErrGateway membungkus kegagalan dari Midtrans (controller -> 502).
var ErrGateway = errors.New("payment gateway error")

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

// createSnapTransaction diganti di test.
var createSnapTransaction = func(req *snap.Request) (*snap.Response, error) {
	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func customerFromUser(u userModel.UserModel) CustomerInput {
	first, last, _ := strings.Cut(strings.TrimSpace(u.UserName), " ")
	cust := CustomerInput{FirstName: first, LastName: last, Email: u.Email}
	if u.Phone != nil {
		cust.Phone = *u.Phone
	}
	return cust
}

/* =========================================================
   Generate Snap Token
   order_id = payment_id, dipakai lagi di webhook.
========================================================= */

func GenerateSnapToken(p model.PaymentModel, cust CustomerInput) (string, string, error) {
	gross := int64(math.Round(p.PaymentAmount))
	if gross <= 0 {
		return "", "", errors.New("gateway payments need a positive amount")
	}
	orderID := p.PaymentID.String()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       p.PaymentClassID.String(),
				Price:    gross,
				Qty:      1,
				Name:     "Yoga class",
				Category: "CLASS",
			},
		},
	}

	resp, err := createSnapTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

// StartGatewayCheckout membuat Snap token untuk payment gateway yang masih pending.
// Token yang sudah ada dipakai ulang.
func StartGatewayCheckout(ctx context.Context, db *gorm.DB, paymentID uuid.UUID) (*model.PaymentModel, error) {
	var p model.PaymentModel
	if err := db.WithContext(ctx).First(&p, "payment_id = ?", paymentID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("payment")
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}
	if p.PaymentMethod != model.PaymentMethodGateway {
		return nil, apperr.Validation("payment_method", "checkout is only available for gateway payments")
	}
	if p.PaymentStatus != model.PaymentStatusPending {
		return nil, apperr.InvalidTransition("payment", string(p.PaymentStatus), "checkout")
	}
	if p.PaymentGatewayToken != nil && *p.PaymentGatewayToken != "" {
		return &p, nil
	}

	var student userModel.UserModel
	if err := db.WithContext(ctx).First(&student, "id = ?", p.PaymentStudentID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("student")
		}
		return nil, fmt.Errorf("load student: %w", err)
	}

	token, redirectURL, err := GenerateSnapToken(p, customerFromUser(student))
	if err != nil {
		log.Printf("[MIDTRANS] snap token failed payment=%s: %v", p.PaymentID, err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := db.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("payment_id = ?", p.PaymentID).
		Updates(map[string]any{
			"payment_gateway_token":        token,
			"payment_gateway_redirect_url": redirectURL,
		}).Error; err != nil {
		return nil, fmt.Errorf("save snap token: %w", err)
	}
	p.PaymentGatewayToken = &token
	p.PaymentGatewayRedirectURL = &redirectURL
	return &p, nil
}
