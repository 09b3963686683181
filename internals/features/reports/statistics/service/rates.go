package service

import paymentService "yogacenter_backend/internals/features/finance/payments/service"

// AttendanceRate: attended / reserved * 100, 0 kalau belum ada reservasi.
func AttendanceRate(attended, reserved int64) float64 {
	if reserved <= 0 {
		return 0
	}
	return float64(attended) / float64(reserved) * 100
}

// OccupancyRate: booked / capacity * 100, 0 kalau capacity 0.
func OccupancyRate(booked, capacity int64) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(booked) / float64(capacity) * 100
}

func TeacherEarnings(amount, teacherSharePercentage float64) float64 {
	return paymentService.CalculateSplit(amount, teacherSharePercentage).TeacherEarnings
}
