package service

import (
	"context"
	"mime/multipart"
	"testing"

	"complaint_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubComplaintRepo struct {
	complaints map[int64]*model.Complaint
	updates    []*model.ComplaintUpdate
	statuses   map[int64]string
}

func newStubComplaintRepo() *stubComplaintRepo {
	return &stubComplaintRepo{
		complaints: map[int64]*model.Complaint{},
		statuses:   map[int64]string{},
	}
}

func (r *stubComplaintRepo) Create(_ context.Context, c *model.Complaint) error {
	c.ID = int64(len(r.complaints) + 1)
	r.complaints[c.ID] = c
	return nil
}

func (r *stubComplaintRepo) FindByID(_ context.Context, id int64) (*model.Complaint, error) {
	return r.complaints[id], nil
}

func (r *stubComplaintRepo) FindByUser(_ context.Context, userID int64) ([]model.Complaint, error) {
	var out []model.Complaint
	for _, c := range r.complaints {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubComplaintRepo) FindFiltered(_ context.Context, _ model.ComplaintFilters) ([]model.Complaint, error) {
	var out []model.Complaint
	for _, c := range r.complaints {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubComplaintRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	r.statuses[id] = status
	return nil
}

func (r *stubComplaintRepo) AddUpdate(_ context.Context, u *model.ComplaintUpdate) error {
	u.ID = int64(len(r.updates) + 1)
	r.updates = append(r.updates, u)
	return nil
}

type stubUploader struct {
	url    string
	called bool
}

func (u *stubUploader) UploadFile(_ *multipart.FileHeader) (string, error) {
	u.called = true
	return u.url, nil
}

type stubMailer struct{}

func (stubMailer) SendComplaintConfirmation(string, string, int64) error { return nil }

func newTestComplaintService(repo *stubComplaintRepo, uploader *stubUploader) ComplaintService {
	return NewComplaintService(repo, newStubUserRepo(), uploader, stubMailer{})
}

func TestCreateComplaint_StartsPending(t *testing.T) {
	repo := newStubComplaintRepo()
	svc := newTestComplaintService(repo, &stubUploader{})

	complaint, err := svc.CreateComplaint(context.Background(), 3, model.CreateComplaintRequest{
		Title:       "Pothole on Main St",
		Description: "Large pothole near the crossing",
		CategoryID:  1,
		Latitude:    41.3,
		Longitude:   69.2,
		IsPublic:    true,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, complaint.Status)
	assert.Equal(t, int64(3), complaint.UserID)
	assert.Nil(t, complaint.Evidence)
}

func TestCreateComplaint_UploadsEvidence(t *testing.T) {
	repo := newStubComplaintRepo()
	uploader := &stubUploader{url: "http://minio/evidence/123.jpg"}
	svc := newTestComplaintService(repo, uploader)

	evidence := &multipart.FileHeader{Filename: "photo.jpg", Size: 1024}
	complaint, err := svc.CreateComplaint(context.Background(), 3, model.CreateComplaintRequest{
		Title:       "Broken pipe",
		Description: "Water leaking onto the street",
		CategoryID:  2,
	}, evidence)

	require.NoError(t, err)
	assert.True(t, uploader.called)
	require.NotNil(t, complaint.Evidence)
	assert.Equal(t, "http://minio/evidence/123.jpg", *complaint.Evidence)
}

func TestCreateComplaint_RejectsBadExtension(t *testing.T) {
	uploader := &stubUploader{}
	svc := newTestComplaintService(newStubComplaintRepo(), uploader)

	evidence := &multipart.FileHeader{Filename: "payload.exe", Size: 1024}
	_, err := svc.CreateComplaint(context.Background(), 3, model.CreateComplaintRequest{
		Title:       "x",
		Description: "y",
		CategoryID:  1,
	}, evidence)

	assert.ErrorIs(t, err, ErrInvalidFileFormat)
	assert.False(t, uploader.called)
}

func TestCreateComplaint_RejectsOversizedFile(t *testing.T) {
	uploader := &stubUploader{}
	svc := newTestComplaintService(newStubComplaintRepo(), uploader)

	evidence := &multipart.FileHeader{Filename: "huge.pdf", Size: MaxEvidenceSize + 1}
	_, err := svc.CreateComplaint(context.Background(), 3, model.CreateComplaintRequest{
		Title:       "x",
		Description: "y",
		CategoryID:  1,
	}, evidence)

	assert.ErrorIs(t, err, ErrFileSizeExceeded)
	assert.False(t, uploader.called)
}

func TestAddUpdate_NotFound(t *testing.T) {
	svc := newTestComplaintService(newStubComplaintRepo(), &stubUploader{})

	_, err := svc.AddUpdate(context.Background(), 404, 2, model.AddUpdateRequest{Comment: "looking into it"})
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestAddUpdate_DefaultsToInProgress(t *testing.T) {
	repo := newStubComplaintRepo()
	svc := newTestComplaintService(repo, &stubUploader{})

	complaint, err := svc.CreateComplaint(context.Background(), 3, model.CreateComplaintRequest{
		Title:       "Pothole",
		Description: "desc",
		CategoryID:  1,
	}, nil)
	require.NoError(t, err)

	update, err := svc.AddUpdate(context.Background(), complaint.ID, 2, model.AddUpdateRequest{Comment: "crew dispatched"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), update.UserID)
	assert.Equal(t, model.StatusInProgress, repo.statuses[complaint.ID])
}

func TestAddUpdate_ExplicitStatus(t *testing.T) {
	repo := newStubComplaintRepo()
	svc := newTestComplaintService(repo, &stubUploader{})

	complaint, err := svc.CreateComplaint(context.Background(), 3, model.CreateComplaintRequest{
		Title:       "Pothole",
		Description: "desc",
		CategoryID:  1,
	}, nil)
	require.NoError(t, err)

	_, err = svc.AddUpdate(context.Background(), complaint.ID, 2, model.AddUpdateRequest{
		Comment: "filled and sealed",
		Status:  model.StatusResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, repo.statuses[complaint.ID])
}
