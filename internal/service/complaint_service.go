package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"complaint_portal/internal/model"
	"complaint_portal/internal/repository"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidFileFormat = errors.New("invalid file format. only .jpg, .jpeg, .png, .pdf are allowed")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
)

const MaxEvidenceSize = 10 * 1024 * 1024 // 10MB

// EvidenceUploader stores an evidence file and returns its public URL.
type EvidenceUploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// ConfirmationMailer notifies a citizen that their complaint was registered.
type ConfirmationMailer interface {
	SendComplaintConfirmation(to string, title string, complaintID int64) error
}

// ComplaintService defines operations for complaints
type ComplaintService interface {
	CreateComplaint(ctx context.Context, userID int64, req model.CreateComplaintRequest, evidence *multipart.FileHeader) (*model.Complaint, error)
	GetMyComplaints(ctx context.Context, userID int64) ([]model.Complaint, error)
	GetFilteredComplaints(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error)
	AddUpdate(ctx context.Context, complaintID, officialID int64, req model.AddUpdateRequest) (*model.ComplaintUpdate, error)
}

type complaintService struct {
	repo     repository.ComplaintRepository
	userRepo repository.UserRepository
	uploader EvidenceUploader
	mailer   ConfirmationMailer
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(repo repository.ComplaintRepository, userRepo repository.UserRepository, uploader EvidenceUploader, mailer ConfirmationMailer) ComplaintService {
	return &complaintService{repo: repo, userRepo: userRepo, uploader: uploader, mailer: mailer}
}

// CreateComplaint registers a new complaint, uploading the evidence file
// first when one is attached. The confirmation e-mail goes out in the
// background; a mail failure never fails the submission.
func (s *complaintService) CreateComplaint(ctx context.Context, userID int64, req model.CreateComplaintRequest, evidence *multipart.FileHeader) (*model.Complaint, error) {
	var evidenceURL *string
	if evidence != nil {
		if evidence.Size > MaxEvidenceSize {
			return nil, ErrFileSizeExceeded
		}
		ext := strings.ToLower(filepath.Ext(evidence.Filename))
		allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}
		if !allowedExts[ext] {
			return nil, ErrInvalidFileFormat
		}

		url, err := s.uploader.UploadFile(evidence)
		if err != nil {
			return nil, fmt.Errorf("failed to upload evidence: %w", err)
		}
		evidenceURL = &url
	}

	complaint := &model.Complaint{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Status:      model.StatusPending,
		District:    req.District,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsPublic:    req.IsPublic,
		Evidence:    evidenceURL,
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint in repo: %w", err)
	}

	go s.sendConfirmation(userID, complaint.Title, complaint.ID)

	return complaint, nil
}

func (s *complaintService) sendConfirmation(userID int64, title string, complaintID int64) {
	user, err := s.userRepo.FindByID(context.Background(), userID)
	if err != nil || user == nil {
		log.Printf("Failed to look up user %d for confirmation mail: %v", userID, err)
		return
	}
	if err := s.mailer.SendComplaintConfirmation(user.Email, title, complaintID); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", user.Email, err)
	}
}

// GetMyComplaints returns the complaints submitted by a user
func (s *complaintService) GetMyComplaints(ctx context.Context, userID int64) ([]model.Complaint, error) {
	complaints, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user complaints from repo: %w", err)
	}
	return complaints, nil
}

// GetFilteredComplaints returns the complaint feed narrowed by the present filters
func (s *complaintService) GetFilteredComplaints(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error) {
	complaints, err := s.repo.FindFiltered(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get filtered complaints from repo: %w", err)
	}
	return complaints, nil
}

// AddUpdate records an official's triage comment and moves the complaint's
// status. When the request carries no status the complaint goes to
// in_progress.
func (s *complaintService) AddUpdate(ctx context.Context, complaintID, officialID int64, req model.AddUpdateRequest) (*model.ComplaintUpdate, error) {
	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to find complaint for update: %w", err)
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}

	update := &model.ComplaintUpdate{
		ComplaintID: complaintID,
		UserID:      officialID,
		Comment:     req.Comment,
	}
	if err := s.repo.AddUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to record complaint update: %w", err)
	}

	status := req.Status
	if status == "" {
		status = model.StatusInProgress
	}
	if err := s.repo.UpdateStatus(ctx, complaintID, status); err != nil {
		return nil, fmt.Errorf("failed to move complaint status: %w", err)
	}

	return update, nil
}
