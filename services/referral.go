package services

import (
	"errors"
	"strconv"
	"strings"

	"hashprime-backend/models"

	"gorm.io/gorm"
)

// ResolveReferrer maps a referral identifier to the referring user, or nil if
// it resolves to nobody. Precedence: referral code, then email when the
// identifier contains "@", then a raw numeric user ID for legacy records.
// Callers skip bonus attribution on nil rather than failing the approval.
func ResolveReferrer(db *gorm.DB, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}

	var user models.User
	err := db.Where("referral_code = ?", identifier).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if strings.Contains(identifier, "@") {
		err = db.Where("email = ?", identifier).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, nil
	}

	// Legacy records stored the referrer's raw ID instead of a code.
	if id, convErr := strconv.ParseUint(identifier, 10, 32); convErr == nil {
		err = db.First(&user, uint(id)).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
