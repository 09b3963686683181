package seeds

import (
	"context"
	"log"

	"gorm.io/gorm"

	"yogacenter_backend/internals/configs"
	"yogacenter_backend/internals/constants"
	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	centerService "yogacenter_backend/internals/features/centers/centers/service"
	userService "yogacenter_backend/internals/features/users/users/service"
)

const (
	DefaultAdminEmail    = "admin@yogacenter.com"
	DefaultAdminPassword = "admin123"
	DefaultCenterName    = "Centro Principal"
)

// RunAllSeeds: idempotent, aman dipanggil tiap start.
func RunAllSeeds(db *gorm.DB) error {
	ctx := context.Background()

	center, err := SeedDefaultCenter(ctx, db)
	if err != nil {
		return err
	}
	return SeedDefaultAdmin(ctx, db, center)
}

func SeedDefaultCenter(ctx context.Context, db *gorm.DB) (*centerModel.CenterModel, error) {
	existing, err := centerService.FirstCenter(ctx, db)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	c, err := centerService.CreateCenter(ctx, db, centerService.CenterInput{
		Name:    DefaultCenterName,
		Address: configs.GetEnv("SEED_CENTER_ADDRESS", "-"),
		Phone:   configs.GetEnv("SEED_CENTER_PHONE", "-"),
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🌱 default center created: %s", c.CenterName)
	return c, nil
}

// SeedDefaultAdmin hanya jalan kalau belum ada administrator sama sekali.
func SeedDefaultAdmin(ctx context.Context, db *gorm.DB, center *centerModel.CenterModel) error {
	ok, err := userService.HasAdministrator(ctx, db)
	if err != nil || ok {
		return err
	}

	email := configs.GetEnv("SEED_ADMIN_EMAIL", DefaultAdminEmail)
	password := configs.GetEnv("SEED_ADMIN_PASSWORD", DefaultAdminPassword)
	if password == DefaultAdminPassword {
		log.Println("⚠️ SEED_ADMIN_PASSWORD not set, using the default password. Change it after first login!")
	}

	in := userService.CreateUserInput{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     constants.RoleAdministrator,
	}
	if center != nil {
		in.CenterIDs = append(in.CenterIDs, center.CenterID)
	}
	u, err := userService.CreateUser(ctx, db, in)
	if err != nil {
		return err
	}
	log.Printf("🌱 default administrator created: %s", u.Email)
	return nil
}
