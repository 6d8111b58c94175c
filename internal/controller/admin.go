package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pharmalink/pharmalink/internal/api/client"
	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/ports"
	"github.com/pharmalink/pharmalink/internal/core/service"
)

// Admin drives admin.html.
type Admin struct {
	page
	api ports.AdminAPI
}

func NewAdmin(api ports.AdminAPI, guard *service.PageGuard, log zerolog.Logger) *Admin {
	return &Admin{page: newPage(domain.RoleAdmin, guard, log), api: api}
}

func (a *Admin) Dashboard(ctx context.Context) (Result[domain.AdminDashboard], error) {
	return run[domain.AdminDashboard](ctx, a.page, nil, a.api.AdminDashboard)
}

// Overview loads the dashboard and analytics concurrently. Each is its own
// round trip; the first failure cancels the other.
func (a *Admin) Overview(ctx context.Context) (Result[Overview], error) {
	if _, err := a.Boot(ctx); err != nil {
		return Result[Overview]{}, err
	}

	var dashRaw, analyticsRaw json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := a.api.AdminDashboard(gctx)
		dashRaw = raw
		return err
	})
	g.Go(func() error {
		raw, err := a.api.Analytics(gctx)
		analyticsRaw = raw
		return err
	})
	if err := g.Wait(); err != nil {
		return Result[Overview]{}, a.settle(err)
	}

	var (
		out Overview
		err error
	)
	if out.Dashboard, err = client.Decode[domain.AdminDashboard](dashRaw); err != nil {
		return Result[Overview]{}, err
	}
	if out.Analytics, err = client.Decode[domain.Analytics](analyticsRaw); err != nil {
		return Result[Overview]{}, err
	}

	raw, err := json.Marshal(map[string]json.RawMessage{
		"dashboard": dashRaw,
		"analytics": analyticsRaw,
	})
	if err != nil {
		return Result[Overview]{}, fmt.Errorf("encode overview: %w", err)
	}
	return Result[Overview]{Raw: raw, View: out}, nil
}

func (a *Admin) Users(ctx context.Context, f domain.UserFilter) (Result[domain.Page[domain.Identity]], error) {
	return run[domain.Page[domain.Identity]](ctx, a.page, f, func(ctx context.Context) (json.RawMessage, error) {
		return a.api.ListUsers(ctx, f)
	})
}

func (a *Admin) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (Result[domain.Identity], error) {
	if err := requireID("id", id); err != nil {
		return Result[domain.Identity]{}, err
	}
	r, err := run[userEnvelope](ctx, a.page, patch, func(ctx context.Context) (json.RawMessage, error) {
		return a.api.UpdateUser(ctx, id, patch)
	})
	return unwrap(r, err, func(e userEnvelope) domain.Identity { return e.User })
}

func (a *Admin) Pharmacies(ctx context.Context, f domain.PharmacyFilter) (Result[domain.Page[domain.Pharmacy]], error) {
	return run[domain.Page[domain.Pharmacy]](ctx, a.page, f, func(ctx context.Context) (json.RawMessage, error) {
		return a.api.ListPharmacies(ctx, f)
	})
}

func (a *Admin) Subscriptions(ctx context.Context, f domain.SubscriptionFilter) (Result[domain.Page[domain.Subscription]], error) {
	return run[domain.Page[domain.Subscription]](ctx, a.page, f, func(ctx context.Context) (json.RawMessage, error) {
		return a.api.ListSubscriptions(ctx, f)
	})
}

func (a *Admin) Advertisements(ctx context.Context, f domain.AdvertisementFilter) (Result[domain.Page[domain.Advertisement]], error) {
	return run[domain.Page[domain.Advertisement]](ctx, a.page, f, func(ctx context.Context) (json.RawMessage, error) {
		return a.api.ListAdvertisements(ctx, f)
	})
}

func (a *Admin) CreateAdvertisement(ctx context.Context, req domain.AdvertisementRequest) (Result[domain.Advertisement], error) {
	r, err := run[advertisementEnvelope](ctx, a.page, req, func(ctx context.Context) (json.RawMessage, error) {
		return a.api.CreateAdvertisement(ctx, req)
	})
	return unwrap(r, err, func(e advertisementEnvelope) domain.Advertisement { return e.Advertisement })
}

func (a *Admin) Analytics(ctx context.Context) (Result[domain.Analytics], error) {
	return run[domain.Analytics](ctx, a.page, nil, a.api.Analytics)
}
