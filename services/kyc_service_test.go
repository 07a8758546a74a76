package services

import (
	"errors"
	"testing"

	"hashprime-backend/models"
)

func TestKYCSubmitAndApprove(t *testing.T) {
	db := setupTestDB(t)
	svc := NewKYCService(db)
	user := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", kyc: models.KYCUnsubmitted})

	doc, err := svc.Submit(user.ID, "passport", "https://cdn/kyc/1.png")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if reloadUser(t, db, user.ID).KYCStatus != models.KYCPending {
		t.Fatal("expected user kyc pending after submission")
	}

	if _, err := svc.Review(doc.ID, true, "documents verified"); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if reloadUser(t, db, user.ID).KYCStatus != models.KYCApproved {
		t.Fatal("expected user kyc approved after review")
	}

	// A reviewed document cannot be reviewed again.
	if _, err := svc.Review(doc.ID, false, ""); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestKYCRejectionUnblocksResubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewKYCService(db)
	user := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1", kyc: models.KYCUnsubmitted})

	doc, err := svc.Submit(user.ID, "passport", "https://cdn/kyc/1.png")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := svc.Review(doc.ID, false, "photo unreadable"); err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if reloadUser(t, db, user.ID).KYCStatus != models.KYCRejected {
		t.Fatal("expected user kyc rejected")
	}

	if _, err := svc.Submit(user.ID, "passport", "https://cdn/kyc/2.png"); err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if reloadUser(t, db, user.ID).KYCStatus != models.KYCPending {
		t.Fatal("expected user kyc pending after resubmission")
	}
}

func TestKYCSubmit_ApprovedUserStaysApproved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewKYCService(db)
	user := createTestUser(t, db, testUserOpts{email: "a@example.com", code: "REF1"})

	if _, err := svc.Submit(user.ID, "address_proof", "https://cdn/kyc/3.png"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if reloadUser(t, db, user.ID).KYCStatus != models.KYCApproved {
		t.Fatal("an extra document must not demote an approved user")
	}
}
