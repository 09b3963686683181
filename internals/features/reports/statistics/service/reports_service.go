package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "yogacenter_backend/internals/features/classes/attendances/model"
	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
)

type FinancialFilter struct {
	From     *time.Time // payment_paid_at >= From
	To       *time.Time // payment_paid_at < To
	CenterID *uuid.UUID
	Status   *paymentModel.PaymentStatus
}

// FinancialReport: revenue & share hanya dari payment paid; counts mencakup semua status.
type FinancialReport struct {
	TotalRevenue      float64                                `json:"total_revenue"`
	RevenueByMethod   map[paymentModel.PaymentMethod]float64 `json:"revenue_by_method"`
	CountByStatus     map[paymentModel.PaymentStatus]int64   `json:"count_by_status"`
	AmountByStatus    map[paymentModel.PaymentStatus]float64 `json:"amount_by_status"`
	TeacherShareTotal float64                                `json:"teacher_share_total"`
	CenterShareTotal  float64                                `json:"center_share_total"`
	Payments          int64                                  `json:"payments"`
}

func BuildFinancialReport(ctx context.Context, db *gorm.DB, f FinancialFilter) (*FinancialReport, error) {
	q := db.WithContext(ctx).
		Table("payments AS p").
		Select(`p.payment_amount AS amount, p.payment_method AS method, p.payment_status AS status,
			c.class_teacher_share_percentage AS pct`).
		Joins("JOIN classes c ON c.class_id = p.payment_class_id")
	if f.From != nil {
		q = q.Where("p.payment_paid_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("p.payment_paid_at < ?", *f.To)
	}
	if f.CenterID != nil {
		q = q.Where("c.class_center_id = ?", *f.CenterID)
	}
	if f.Status != nil {
		q = q.Where("p.payment_status = ?", *f.Status)
	}

	var rows []struct {
		Amount float64
		Method paymentModel.PaymentMethod
		Status paymentModel.PaymentStatus
		Pct    float64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("financial report: %w", err)
	}

	out := FinancialReport{
		RevenueByMethod: map[paymentModel.PaymentMethod]float64{},
		CountByStatus:   map[paymentModel.PaymentStatus]int64{},
		AmountByStatus:  map[paymentModel.PaymentStatus]float64{},
		Payments:        int64(len(rows)),
	}
	for _, r := range rows {
		out.CountByStatus[r.Status]++
		out.AmountByStatus[r.Status] += r.Amount

		switch r.Status {
		case paymentModel.PaymentStatusPaid:
			out.TotalRevenue += r.Amount
			out.RevenueByMethod[r.Method] += r.Amount
			teacher := TeacherEarnings(r.Amount, r.Pct)
			out.TeacherShareTotal += teacher
			out.CenterShareTotal += r.Amount - teacher
		case paymentModel.PaymentStatusPending, paymentModel.PaymentStatusRefunded:
		}
	}
	return &out, nil
}

type AttendanceFilter struct {
	CenterID *uuid.UUID
	From     *time.Time // class_scheduled_at >= From
	To       *time.Time // class_scheduled_at < To
}

type AttendanceReport struct {
	TotalRecords   int64   `json:"total_records"`
	UniqueStudents int64   `json:"unique_students"`
	Present        int64   `json:"present"`
	Late           int64   `json:"late"`
	Absent         int64   `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"` // (present+late) / total * 100
}

// BuildAttendanceReport: filter tanggal pakai jadwal kelas, karena absent tidak punya attended_at.
func BuildAttendanceReport(ctx context.Context, db *gorm.DB, f AttendanceFilter) (*AttendanceReport, error) {
	q := db.WithContext(ctx).
		Table("attendances AS a").
		Joins("JOIN classes c ON c.class_id = a.attendance_class_id")
	if f.CenterID != nil {
		q = q.Where("c.class_center_id = ?", *f.CenterID)
	}
	if f.From != nil {
		q = q.Where("c.class_scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("c.class_scheduled_at < ?", *f.To)
	}

	var rows []struct {
		StudentID uuid.UUID
		Status    attendanceModel.AttendanceStatus
	}
	if err := q.Select("a.attendance_student_id AS student_id, a.attendance_status AS status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("attendance report: %w", err)
	}

	var out AttendanceReport
	students := make(map[uuid.UUID]struct{}, len(rows))
	for _, r := range rows {
		students[r.StudentID] = struct{}{}
		switch r.Status {
		case attendanceModel.AttendanceStatusPresent:
			out.Present++
		case attendanceModel.AttendanceStatusLate:
			out.Late++
		case attendanceModel.AttendanceStatusAbsent:
			out.Absent++
		}
	}
	out.TotalRecords = int64(len(rows))
	out.UniqueStudents = int64(len(students))
	out.AttendanceRate = AttendanceRate(out.Present+out.Late, out.TotalRecords)
	return &out, nil
}
