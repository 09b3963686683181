package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	reservationService "yogacenter_backend/internals/features/classes/reservations/service"
	"yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/helpers/apperr"
)

func TestCreatePaymentDefaultsToClassPrice(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{Price: 120})

	r, err := reservationService.Reserve(ctx, db, student.ID, class.ClassID, dbtest.BaseTime)
	require.NoError(t, err)

	p, err := CreatePayment(ctx, db, CreatePaymentInput{StudentID: student.ID, ClassID: class.ClassID})
	require.NoError(t, err)

	assert.InDelta(t, 120, p.PaymentAmount, 1e-9)
	assert.Equal(t, model.PaymentMethodCash, p.PaymentMethod)
	assert.Equal(t, model.PaymentStatusPaid, p.PaymentStatus)
	require.NotNil(t, p.PaymentReservationID)
	assert.Equal(t, r.ReservationID, *p.PaymentReservationID)
}

func TestCreatePaymentGatewayStartsPending(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	_, err := reservationService.Reserve(ctx, db, student.ID, class.ClassID, dbtest.BaseTime)
	require.NoError(t, err)

	p, err := CreatePayment(ctx, db, CreatePaymentInput{
		StudentID: student.ID,
		ClassID:   class.ClassID,
		Method:    model.PaymentMethodGateway,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
}

func TestCreatePaymentRequiresActiveReservation(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	_, err := CreatePayment(ctx, db, CreatePaymentInput{StudentID: student.ID, ClassID: class.ClassID})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "reservation_id"})

	_, err = CreatePayment(ctx, db, CreatePaymentInput{StudentID: student.ID, ClassID: uuid.New()})
	assert.ErrorIs(t, err, apperr.ErrClassNotFound)
}

func TestCreatePaymentRejectsOtherStudentsReservation(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	owner := dbtest.SeedUser(t, db, constants.RoleStudent)
	other := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	r, err := reservationService.Reserve(ctx, db, owner.ID, class.ClassID, dbtest.BaseTime)
	require.NoError(t, err)

	_, err = CreatePayment(ctx, db, CreatePaymentInput{
		StudentID:     other.ID,
		ClassID:       class.ClassID,
		ReservationID: &r.ReservationID,
	})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "reservation_id"})
}

func TestCreatePaymentOnlyOneLivePerReservation(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	_, err := reservationService.Reserve(ctx, db, student.ID, class.ClassID, dbtest.BaseTime)
	require.NoError(t, err)

	first, err := CreatePayment(ctx, db, CreatePaymentInput{StudentID: student.ID, ClassID: class.ClassID})
	require.NoError(t, err)

	_, err = CreatePayment(ctx, db, CreatePaymentInput{StudentID: student.ID, ClassID: class.ClassID})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "reservation_id"})

	// setelah refund boleh bayar lagi
	_, err = UpdatePaymentStatus(ctx, db, first.PaymentID, model.PaymentStatusRefunded, dbtest.BaseTime)
	require.NoError(t, err)
	_, err = CreatePayment(ctx, db, CreatePaymentInput{StudentID: student.ID, ClassID: class.ClassID})
	assert.NoError(t, err)
}

func TestCreatePaymentValidatesInput(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	neg := -1.0
	refunded := model.PaymentStatusRefunded

	_, err := CreatePayment(ctx, db, CreatePaymentInput{Amount: &neg})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "payment_amount"})

	_, err = CreatePayment(ctx, db, CreatePaymentInput{Method: "crypto"})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "payment_method"})

	_, err = CreatePayment(ctx, db, CreatePaymentInput{Status: &refunded})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "payment_status"})
}

func TestReserveAndPayIsAtomic(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{MaxCapacity: 1})

	// payment gagal -> seat & reservasi ikut rollback
	_, err := ReserveAndPay(ctx, db, student.ID, class.ClassID, "crypto", dbtest.BaseTime)
	require.Error(t, err)
	assert.Equal(t, 0, dbtest.ReloadClass(t, db, class.ClassID).ClassCurrentCapacity)

	var count int64
	require.NoError(t, db.Model(&reservationModel.ReservationModel{}).Count(&count).Error)
	assert.Zero(t, count)

	res, err := ReserveAndPay(ctx, db, student.ID, class.ClassID, model.PaymentMethodCard, dbtest.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, reservationModel.ReservationStatusActive, res.Reservation.ReservationStatus)
	assert.Equal(t, model.PaymentStatusPaid, res.Payment.PaymentStatus)
	assert.Equal(t, 1, dbtest.ReloadClass(t, db, class.ClassID).ClassCurrentCapacity)

	// kelas penuh -> tidak ada payment yang tercatat
	other := dbtest.SeedUser(t, db, constants.RoleStudent)
	_, err = ReserveAndPay(ctx, db, other.ID, class.ClassID, model.PaymentMethodCash, dbtest.BaseTime)
	assert.ErrorIs(t, err, apperr.ErrCapacityExceeded)
	require.NoError(t, db.Model(&model.PaymentModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	res, err := ReserveAndPay(ctx, db, student.ID, class.ClassID, model.PaymentMethodGateway, dbtest.BaseTime)
	require.NoError(t, err)
	id := res.Payment.PaymentID
	require.Equal(t, model.PaymentStatusPending, res.Payment.PaymentStatus)

	paidAt := dbtest.BaseTime.Add(time.Hour)
	p, err := UpdatePaymentStatus(ctx, db, id, model.PaymentStatusPaid, paidAt)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, p.PaymentStatus)
	assert.True(t, p.PaymentPaidAt.Equal(paidAt))

	// idempotent
	_, err = UpdatePaymentStatus(ctx, db, id, model.PaymentStatusPaid, paidAt)
	require.NoError(t, err)

	_, err = UpdatePaymentStatus(ctx, db, id, model.PaymentStatusPending, paidAt)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)

	_, err = UpdatePaymentStatus(ctx, db, id, model.PaymentStatusRefunded, paidAt)
	require.NoError(t, err)

	_, err = UpdatePaymentStatus(ctx, db, id, model.PaymentStatusPaid, paidAt)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)

	_, err = UpdatePaymentStatus(ctx, db, uuid.New(), model.PaymentStatusPaid, paidAt)
	assert.ErrorIs(t, err, apperr.ErrPaymentNotFound)
}

func TestListPaymentsByTeacher(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)
	mine := dbtest.SeedClass(t, db, dbtest.ClassOpts{TeacherID: teacher.ID})
	notMine := dbtest.SeedClass(t, db, dbtest.ClassOpts{})

	for _, cid := range []uuid.UUID{mine.ClassID, notMine.ClassID} {
		_, err := ReserveAndPay(ctx, db, student.ID, cid, model.PaymentMethodCash, dbtest.BaseTime)
		require.NoError(t, err)
	}

	rows, total, err := ListPayments(ctx, db, ListFilter{TeacherID: &teacher.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ClassID, rows[0].PaymentClassID)

	_, total, err = ListPayments(ctx, db, ListFilter{StudentID: &student.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
