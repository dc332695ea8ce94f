package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"complaint_portal/internal/model"
	"complaint_portal/internal/utils"
)

// LoginResult carries the bearer token and the canonical user record decoded
// from it.
type LoginResult struct {
	Token string
	User  model.SessionUser
}

// Login authenticates against POST /login and builds the user record the
// same way the web client does: id and role from the token claims, name and
// email from the response body.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, networkError(err)
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}

	claims, err := utils.DecodeClaims(resp.Token)
	if err != nil {
		return nil, &APIError{StatusCode: 0, Message: fmt.Sprintf("login response carried an undecodable token: %v", err)}
	}

	return &LoginResult{
		Token: resp.Token,
		User: model.SessionUser{
			ID:    claims.UserID,
			Role:  claims.Role,
			Email: resp.User.Email,
			Name:  resp.User.Name,
		},
	}, nil
}

// Register creates a new citizen account via POST /register.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return networkError(err)
	}
	return c.do(ctx, http.MethodPost, "/register", bytes.NewReader(body), "application/json", nil)
}

// CurrentUser reads the cached user record from the session store. No
// network call is made.
func (c *Client) CurrentUser() (*model.SessionUser, error) {
	sess, err := c.sessions.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	user := sess.User
	return &user, nil
}

// ListUsers fetches every non-admin account (admin only; the backend
// enforces the role).
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var resp struct {
		Users []model.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ListOfficials fetches every official account (admin only).
func (c *Client) ListOfficials(ctx context.Context) ([]model.User, error) {
	var resp struct {
		Officials []model.User `json:"officials"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/officials", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Officials, nil
}

// PromoteToOfficial promotes a user via POST /admin/users/{id}/role. The
// backend accepts only the official role, so that fixed value is always
// sent; a 400 comes back as ErrInvalidRoleTransition.
func (c *Client) PromoteToOfficial(ctx context.Context, userID int64) error {
	body, err := json.Marshal(model.UpdateRoleRequest{Role: model.RoleOfficial})
	if err != nil {
		return networkError(err)
	}
	err = c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/role", userID), bytes.NewReader(body), "application/json", nil)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusBadRequest {
		return ErrInvalidRoleTransition
	}
	return err
}
