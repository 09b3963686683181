package dbx

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate menambahkan SELECT ... FOR UPDATE di postgres.
// sqlite tidak punya row lock; writer lock-nya sudah men-serialisasi transaksi.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
