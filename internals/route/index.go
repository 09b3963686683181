// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/constants"
	routeDetails "yogacenter_backend/internals/route/details"
	authMiddleware "yogacenter_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	// wajib sebelum group /api/a: Use() Fiber v2 match by prefix, "/api/a" juga kena "/api/auth"
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===================== GROUPS =====================

	// PUBLIC → tanpa JWT (webhook gateway, daftar center)
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")

	// PRIVATE (semua user login)
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware(db))

	// TEACHER
	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/t",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("teacher area"), constants.TeacherOnly...),
	)

	// STAFF (administrator + receptionist)
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("staff area"), constants.StaffRoles...),
	)

	midtransServerKey := configs.MidtransServerKey

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Center routes...")
	routeDetails.CenterPublicRoutes(public, db)
	routeDetails.CenterAdminRoutes(admin, db)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(private, db)
	routeDetails.UserAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Class routes...")
	routeDetails.ClassUserRoutes(private, db)
	routeDetails.ClassTeacherRoutes(teacher, db)
	routeDetails.ClassAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinancePublicRoutes(public, db, midtransServerKey)
	routeDetails.FinanceUserRoutes(private, db, midtransServerKey)
	routeDetails.FinanceAdminRoutes(admin, db, midtransServerKey)

	log.Println("[INFO] Mounting Report routes...")
	routeDetails.ReportUserRoutes(private, db)
	routeDetails.ReportTeacherRoutes(teacher, db)
	routeDetails.ReportAdminRoutes(admin, db)
}
