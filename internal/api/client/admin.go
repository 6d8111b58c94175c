package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func (c *Client) AdminDashboard(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/admin/dashboard", nil)
}

func (c *Client) ListUsers(ctx context.Context, f domain.UserFilter) (json.RawMessage, error) {
	q := pageQuery(f.PageRequest)
	setIf(q, "role", string(f.Role))
	setIf(q, "search", f.Search)
	return c.Do(ctx, http.MethodGet, "/admin/users", nil, WithQuery(q))
}

func (c *Client) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, idPath("/admin/users", id, ""), patch)
}

func (c *Client) ListPharmacies(ctx context.Context, f domain.PharmacyFilter) (json.RawMessage, error) {
	q := pageQuery(f.PageRequest)
	setIf(q, "subscription_status", f.SubscriptionStatus)
	setIf(q, "search", f.Search)
	return c.Do(ctx, http.MethodGet, "/admin/pharmacies", nil, WithQuery(q))
}

func (c *Client) ListSubscriptions(ctx context.Context, f domain.SubscriptionFilter) (json.RawMessage, error) {
	q := pageQuery(f.PageRequest)
	setIf(q, "status", f.Status)
	return c.Do(ctx, http.MethodGet, "/admin/subscriptions", nil, WithQuery(q))
}

func (c *Client) ListAdvertisements(ctx context.Context, f domain.AdvertisementFilter) (json.RawMessage, error) {
	q := pageQuery(f.PageRequest)
	if f.Active != nil {
		q.Set("active", strconv.FormatBool(*f.Active))
	}
	return c.Do(ctx, http.MethodGet, "/admin/advertisements", nil, WithQuery(q))
}

func (c *Client) CreateAdvertisement(ctx context.Context, req domain.AdvertisementRequest) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/admin/advertisements", req)
}

// Analytics summarises the last 30 days.
func (c *Client) Analytics(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/admin/analytics", nil)
}
