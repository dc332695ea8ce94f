package model

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Complaint represents a citizen complaint record
type Complaint struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  int       `json:"category_id"`
	Status      string    `json:"status"`
	District    *string   `json:"district,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsPublic    bool      `json:"is_public"`
	Evidence    *string   `json:"evidence,omitempty"` // public URL of the uploaded file
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category represents a complaint category
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ComplaintUpdate is a triage comment an official attaches to a complaint
type ComplaintUpdate struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaint_id"`
	UserID      int64     `json:"user_id"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateComplaintRequest is used for submitting a new complaint
type CreateComplaintRequest struct {
	Title       string  `json:"title" binding:"required,min=5"`
	Description string  `json:"description" binding:"required,min=10"`
	CategoryID  int     `json:"category" binding:"required"`
	District    *string `json:"district"`
	Latitude    float64 `json:"latitude" binding:"required,latitude"`
	Longitude   float64 `json:"longitude" binding:"required,longitude"`
	IsPublic    bool    `json:"is_public"`
}

// AddUpdateRequest is the body an official posts when triaging a complaint.
// Status defaults to in_progress when omitted.
type AddUpdateRequest struct {
	Comment string `json:"comment" binding:"required,min=10"`
	Status  string `json:"status" binding:"omitempty,oneof=in_progress resolved"`
}

// ComplaintFilters contains the optional filter parameters for complaint
// list queries; absent fields are omitted from the generated WHERE clause.
type ComplaintFilters struct {
	District   *string
	CategoryID *int
	Status     *string
	UserID     *int64
}
