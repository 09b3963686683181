// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	reservationDTO "yogacenter_backend/internals/features/classes/reservations/dto"
	dto "yogacenter_backend/internals/features/finance/payments/dto"
	model "yogacenter_backend/internals/features/finance/payments/model"
	svc "yogacenter_backend/internals/features/finance/payments/service"
	helper "yogacenter_backend/internals/helpers"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbtime"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	DB                *gorm.DB
	Validator         *validator.Validate
	MidtransServerKey string // dipakai untuk verify signature di webhook
}

func NewPaymentController(db *gorm.DB, midtransServerKey string) *PaymentController {
	return &PaymentController{
		DB:                db,
		Validator:         validator.New(),
		MidtransServerKey: midtransServerKey,
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /api/a/payments
func (h *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := svc.CreatePayment(c.Context(), h.DB, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Payment recorded", dto.FromModel(p))
}

// POST /reservations/reserve-and-pay
func (h *PaymentController) ReserveAndPay(c *fiber.Ctx) error {
	var req dto.ReserveAndPayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	studentID, err := helper.ResolveActingStudent(c, req.StudentID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	method, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := svc.ReserveAndPay(c.Context(), h.DB, studentID, uuid.MustParse(req.ClassID), method, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Reservation paid", fiber.Map{
		"reservation": reservationDTO.FromModel(res.Reservation),
		"payment":     dto.FromModel(res.Payment),
	})
}

// GET /api/u/payments/me
func (h *PaymentController) MyPayments(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f.StudentID = &userID
	return h.list(c, f)
}

// GET /api/a/payments?student_id=&class_id=&teacher_id=&center_id=&status=&method=&from=&to=
func (h *PaymentController) ListPayments(c *fiber.Ctx) error {
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	for key, dst := range map[string]**uuid.UUID{
		"student_id": &f.StudentID,
		"class_id":   &f.ClassID,
		"teacher_id": &f.TeacherID,
		"center_id":  &f.CenterID,
	} {
		if *dst, err = helper.ParseUUIDQuery(c, key); err != nil {
			return helper.FromServiceError(c, err)
		}
	}
	return h.list(c, f)
}

func (h *PaymentController) list(c *fiber.Ctx, f svc.ListFilter) error {
	p := helper.ResolvePaging(c, 20, 200)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := svc.ListPayments(c.Context(), h.DB, f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "Payments fetched", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

func parseListFilter(c *fiber.Ctx) (svc.ListFilter, error) {
	var f svc.ListFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st, err := model.ParsePaymentStatus(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f.Status = &st
	}
	if s := strings.TrimSpace(c.Query("method")); s != "" {
		m, err := model.ParsePaymentMethod(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f.Method = &m
	}
	loc := dbtime.CenterLocation()
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, _ := dbtime.DayRange(d)
		f.From = &from
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		_, to := dbtime.DayRange(d) // inklusif sampai akhir hari
		f.To = &to
	}
	return f, nil
}

// GET /payments/:id
func (h *PaymentController) GetPaymentByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	p, err := svc.GetPayment(c.Context(), h.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helper.EnsureSelfOrStaff(c, p.PaymentStudentID); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "payment detail", dto.FromModel(p))
}

// PATCH /api/a/payments/:id/status
func (h *PaymentController) UpdateStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := svc.UpdatePaymentStatus(c.Context(), h.DB, id, model.PaymentStatus(req.PaymentStatus), dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Payment status updated", dto.FromModel(p))
}

// GET /api/a/payments/:id/split
func (h *PaymentController) Split(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	split, err := svc.Split(c.Context(), h.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Earnings split", dto.SplitResponse{PaymentID: id, EarningsSplit: split})
}

// POST /api/u/payments/:id/checkout
func (h *PaymentController) Checkout(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	p, err := svc.GetPayment(c.Context(), h.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helper.EnsureSelfOrStaff(c, p.PaymentStudentID); err != nil {
		return helper.FromServiceError(c, err)
	}

	p, err = svc.StartGatewayCheckout(c.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, svc.ErrGateway) {
			return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
		}
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Checkout ready", dto.FromModel(p))
}

/* =======================================================================
   Webhook Midtrans (public)
======================================================================= */

func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var notif svc.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if !svc.VerifySignature(notif, h.MidtransServerKey) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	p, err := svc.HandleGatewayNotification(c.Context(), h.DB, h.MidtransServerKey, notif, c.Body(), dbtime.NowUTC())
	if err != nil {
		if errors.Is(err, apperr.ErrPaymentNotFound) {
			// balas 200 agar Midtrans tidak retry terus
			return c.JSON(fiber.Map{"status": "ignored", "reason": "payment not found"})
		}
		return helper.FromServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":             "ok",
		"payment_id":         p.PaymentID,
		"payment_status":     p.PaymentStatus,
		"transaction_status": notif.TransactionStatus,
		"fraud_status":       notif.FraudStatus,
	})
}
