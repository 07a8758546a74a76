package services

import (
	"errors"

	"hashprime-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type KYCService struct {
	DB *gorm.DB
}

func NewKYCService(db *gorm.DB) *KYCService {
	return &KYCService{DB: db}
}

// Submit records an identity document for review and puts the user's KYC
// status into pending. Re-submission after rejection is allowed; an already
// approved user stays approved until an admin says otherwise.
func (s *KYCService) Submit(userID uint, docType, documentURL string) (*models.KYCDocument, error) {
	if docType == "" || documentURL == "" {
		return nil, ErrValidation
	}

	var doc models.KYCDocument
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		doc = models.KYCDocument{
			UserID:      userID,
			DocType:     docType,
			DocumentURL: documentURL,
			Status:      models.KYCPending,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}

		if user.KYCStatus != models.KYCApproved {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("kyc_status", models.KYCPending).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("kyc document submitted", zap.Uint("user_id", userID), zap.String("doc_type", docType))
	return &doc, nil
}

// Review resolves a pending document and mirrors the outcome onto the user.
func (s *KYCService) Review(documentID uint, approve bool, adminNote string) (*models.KYCDocument, error) {
	var reviewed models.KYCDocument

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var doc models.KYCDocument
		if err := tx.First(&doc, documentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if doc.Status != models.KYCPending {
			return ErrAlreadyResolved
		}

		status := models.KYCRejected
		if approve {
			status = models.KYCApproved
		}
		doc.Status = status
		doc.AdminNote = adminNote
		if err := tx.Save(&doc).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", doc.UserID).
			Update("kyc_status", status).Error; err != nil {
			return err
		}
		reviewed = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("kyc document reviewed",
		zap.Uint("user_id", reviewed.UserID),
		zap.String("status", string(reviewed.Status)))
	return &reviewed, nil
}
