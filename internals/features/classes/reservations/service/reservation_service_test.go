package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	attendanceModel "yogacenter_backend/internals/features/classes/attendances/model"
	"yogacenter_backend/internals/features/classes/reservations/model"
	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/helpers/apperr"
)

func TestReserveTakesOneSeat(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 5, baseTime.Add(24*time.Hour))

	r, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)

	assert.Equal(t, model.ReservationStatusActive, r.ReservationStatus)
	assert.Equal(t, student.ID, r.ReservationStudentID)
	assert.Equal(t, 1, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)
}

func TestReserveUnknownClass(t *testing.T) {
	db := dbtest.Open(t)
	student := seedUser(t, db, constants.RoleStudent)

	_, err := Reserve(context.Background(), db, student.ID, uuid.New(), baseTime)
	assert.ErrorIs(t, err, apperr.ErrClassNotFound)
}

func TestReserveRejectsNonStudent(t *testing.T) {
	db := dbtest.Open(t)
	teacher := seedUser(t, db, constants.RoleTeacher)
	class := seedClass(t, db, 5, baseTime)

	_, err := Reserve(context.Background(), db, teacher.ID, class.ClassID, baseTime)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "student_id"})
	assert.Equal(t, 0, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)
}

func TestReserveFullClass(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	a := seedUser(t, db, constants.RoleStudent)
	b := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 1, baseTime)

	_, err := Reserve(ctx, db, a.ID, class.ClassID, baseTime)
	require.NoError(t, err)

	_, err = Reserve(ctx, db, b.ID, class.ClassID, baseTime)
	assert.ErrorIs(t, err, apperr.ErrCapacityExceeded)
	assert.Equal(t, 1, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)
}

func TestReserveDuplicateActive(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 5, baseTime)

	_, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)

	_, err = Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	assert.ErrorIs(t, err, apperr.ErrDuplicateActiveReservation)
	assert.Equal(t, 1, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)
}

func TestReserveAgainAfterCancel(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 1, baseTime)

	first, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)
	_, err = Cancel(ctx, db, first.ReservationID, baseTime)
	require.NoError(t, err)

	second, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)
	assert.NotEqual(t, first.ReservationID, second.ReservationID)
	assert.Equal(t, 1, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)
}

func TestCancelReleasesSeatAndRefunds(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 2, baseTime)

	r, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)

	p := paymentModel.PaymentModel{
		PaymentStudentID:     student.ID,
		PaymentClassID:       class.ClassID,
		PaymentReservationID: &r.ReservationID,
		PaymentAmount:        100,
		PaymentMethod:        paymentModel.PaymentMethodCash,
		PaymentStatus:        paymentModel.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(&p).Error)

	cancelled, err := Cancel(ctx, db, r.ReservationID, baseTime)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCancelled, cancelled.ReservationStatus)
	require.NotNil(t, cancelled.ReservationCancelledAt)
	assert.Equal(t, 0, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)

	var after paymentModel.PaymentModel
	require.NoError(t, db.First(&after, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, paymentModel.PaymentStatusRefunded, after.PaymentStatus)
}

func TestCancelDropsAttendance(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 2, baseTime)

	r, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)
	require.NoError(t, db.Create(&attendanceModel.AttendanceModel{
		AttendanceStudentID: student.ID,
		AttendanceClassID:   class.ClassID,
		AttendanceStatus:    attendanceModel.AttendanceStatusPresent,
	}).Error)

	_, err = Cancel(ctx, db, r.ReservationID, baseTime)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_student_id = ? AND attendance_class_id = ?", student.ID, class.ClassID).
		Count(&n).Error)
	assert.Zero(t, n)
}

func TestCancelIsTerminal(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	class := seedClass(t, db, 2, baseTime)

	r, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)
	_, err = Cancel(ctx, db, r.ReservationID, baseTime)
	require.NoError(t, err)

	_, err = Cancel(ctx, db, r.ReservationID, baseTime)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
	_, err = Complete(ctx, db, r.ReservationID, baseTime)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
	assert.Equal(t, 0, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)
}

func TestCancelUnknownReservation(t *testing.T) {
	db := dbtest.Open(t)
	_, err := Cancel(context.Background(), db, uuid.New(), baseTime)
	assert.ErrorIs(t, err, apperr.ErrReservationNotFound)
}

func TestCompleteRequiresStartedClass(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	start := baseTime.Add(2 * time.Hour)
	class := seedClass(t, db, 2, start)

	r, err := Reserve(ctx, db, student.ID, class.ClassID, baseTime)
	require.NoError(t, err)

	_, err = Complete(ctx, db, r.ReservationID, baseTime)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	done, err := Complete(ctx, db, r.ReservationID, start)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCompleted, done.ReservationStatus)
	require.NotNil(t, done.ReservationCompletedAt)

	// seat tetap terpakai
	assert.Equal(t, 1, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)

	_, err = Cancel(ctx, db, r.ReservationID, start)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
}

func TestCompleteElapsedOnlyTouchesStartedClasses(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	student := seedUser(t, db, constants.RoleStudent)
	past := seedClass(t, db, 3, baseTime.Add(-time.Hour))
	future := seedClass(t, db, 3, baseTime.Add(time.Hour))

	rPast, err := Reserve(ctx, db, student.ID, past.ClassID, baseTime)
	require.NoError(t, err)
	rFuture, err := Reserve(ctx, db, student.ID, future.ClassID, baseTime)
	require.NoError(t, err)

	n, err := CompleteElapsed(ctx, db, baseTime)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := GetReservation(ctx, db, rPast.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCompleted, got.ReservationStatus)

	got, err = GetReservation(ctx, db, rFuture.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusActive, got.ReservationStatus)
}

func TestConcurrentReservationsNeverOverbook(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	const seats, contenders = 3, 8
	class := seedClass(t, db, seats, baseTime)

	students := make([]uuid.UUID, contenders)
	for i := range students {
		students[i] = seedUser(t, db, constants.RoleStudent).ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		full    int
		unknown []error
	)
	for _, sid := range students {
		wg.Add(1)
		go func(sid uuid.UUID) {
			defer wg.Done()
			_, err := Reserve(ctx, db, sid, class.ClassID, baseTime)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, apperr.ErrCapacityExceeded):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(sid)
	}
	wg.Wait()

	require.Empty(t, unknown)
	assert.Equal(t, seats, won)
	assert.Equal(t, contenders-seats, full)
	assert.Equal(t, seats, reloadClass(t, db, class.ClassID).ClassCurrentCapacity)

	var active int64
	require.NoError(t, db.Model(&model.ReservationModel{}).
		Where("reservation_class_id = ? AND reservation_status = ?", class.ClassID, model.ReservationStatusActive).
		Count(&active).Error)
	assert.EqualValues(t, seats, active)
}

func TestListReservationsFiltersByStudent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	a := seedUser(t, db, constants.RoleStudent)
	b := seedUser(t, db, constants.RoleStudent)
	c1 := seedClass(t, db, 5, baseTime)
	c2 := seedClass(t, db, 5, baseTime.Add(time.Hour))

	for _, cid := range []uuid.UUID{c1.ClassID, c2.ClassID} {
		_, err := Reserve(ctx, db, a.ID, cid, baseTime)
		require.NoError(t, err)
	}
	_, err := Reserve(ctx, db, b.ID, c1.ClassID, baseTime)
	require.NoError(t, err)

	rows, total, err := ListReservations(ctx, db, ListFilter{StudentID: &a.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	// terbaru dulu
	assert.Equal(t, c2.ClassID, rows[0].ReservationClassID)
	assert.Equal(t, c2.ClassTeacherID, rows[0].ClassTeacherID)
}
