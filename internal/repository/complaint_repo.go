package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"complaint_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

const complaintColumns = `id, user_id, title, description, category_id, status, district, latitude, longitude, is_public, evidence, created_at, updated_at`

// ComplaintRepository defines operations for complaint data
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	FindByID(ctx context.Context, id int64) (*model.Complaint, error)
	FindByUser(ctx context.Context, userID int64) ([]model.Complaint, error)
	FindFiltered(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	AddUpdate(ctx context.Context, update *model.ComplaintUpdate) error
}

type complaintRepository struct {
	db DB
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func scanComplaint(row pgx.Row, c *model.Complaint) error {
	return row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.CategoryID, &c.Status,
		&c.District, &c.Latitude, &c.Longitude, &c.IsPublic, &c.Evidence,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

// Create inserts a new complaint into the database
func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	sql := `INSERT INTO complaints (user_id, title, description, category_id, status, district, latitude, longitude, is_public, evidence)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		c.UserID, c.Title, c.Description, c.CategoryID, c.Status,
		c.District, c.Latitude, c.Longitude, c.IsPublic, c.Evidence,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// FindByID retrieves a complaint by its ID
func (r *complaintRepository) FindByID(ctx context.Context, id int64) (*model.Complaint, error) {
	c := &model.Complaint{}
	sql := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`
	err := scanComplaint(r.db.QueryRow(ctx, sql, id), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find complaint by ID: %w", err)
	}
	return c, nil
}

// FindByUser retrieves all complaints submitted by a specific user
func (r *complaintRepository) FindByUser(ctx context.Context, userID int64) ([]model.Complaint, error) {
	sql := `SELECT ` + complaintColumns + ` FROM complaints WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints by user: %w", err)
	}
	defer rows.Close()

	return collectComplaints(rows)
}

// FindFiltered retrieves complaints matching the present filter fields.
// Absent fields are omitted from the WHERE clause, so an empty filter
// returns the full feed.
func (r *complaintRepository) FindFiltered(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + complaintColumns + ` FROM complaints`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.District != nil && *filters.District != "" {
		conditions = append(conditions, fmt.Sprintf("district = $%d", argCount))
		args = append(args, *filters.District)
		argCount++
	}
	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argCount))
		args = append(args, *filters.CategoryID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, *filters.UserID)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filtered complaints: %w", err)
	}
	defer rows.Close()

	return collectComplaints(rows)
}

// UpdateStatus moves a complaint to the given status
func (r *complaintRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	sql := `UPDATE complaints SET status = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, status, id)
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("complaint not found for status update")
	}
	return nil
}

// AddUpdate inserts a triage comment for a complaint
func (r *complaintRepository) AddUpdate(ctx context.Context, u *model.ComplaintUpdate) error {
	sql := `INSERT INTO complaint_updates (complaint_id, user_id, comment)
            VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, u.ComplaintID, u.UserID, u.Comment).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add complaint update: %w", err)
	}
	return nil
}

func collectComplaints(rows pgx.Rows) ([]model.Complaint, error) {
	var complaints []model.Complaint
	for rows.Next() {
		var c model.Complaint
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Title, &c.Description, &c.CategoryID, &c.Status,
			&c.District, &c.Latitude, &c.Longitude, &c.IsPublic, &c.Evidence,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan complaint row: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaint rows: %w", err)
	}
	return complaints, nil
}
