package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService aggregates counts across the owner's portfolio. The
// queries are independent so they run concurrently, and results are cached
// in Redis for a short window since the numbers tolerate staleness.
type DashboardService struct {
	PG         *sql.DB
	Redis      *redis.Client
	Authorizer authz.Authorizer
}

func NewDashboardService(pg *sql.DB, rdb *redis.Client, az authz.Authorizer) *DashboardService {
	return &DashboardService{PG: pg, Redis: rdb, Authorizer: az}
}

// OwnerDashboard returns the aggregate view of one owner's portfolio.
func (s *DashboardService) OwnerDashboard(ctx context.Context, ownerID string) (db.OwnerDashboard, error) {
	cacheKey := fmt.Sprintf("dashboard:owner:%s", ownerID)
	var dash db.OwnerDashboard

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			if json.Unmarshal([]byte(cached), &dash) == nil {
				return dash, nil
			}
		}
	}

	type result struct {
		name string
		err  error
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make([]result, 0, 5)

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn()
			mu.Lock()
			results = append(results, result{name: name, err: err})
			mu.Unlock()
		}()
	}

	run("properties", func() error {
		return s.PG.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM properties WHERE owner_id = $1`, ownerID).Scan(&dash.PropertyCount)
	})
	run("units", func() error {
		return s.PG.QueryRowContext(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE u.status = 'occupied'),
			       COUNT(*) FILTER (WHERE u.status = 'vacant')
			FROM units u
			JOIN properties p ON u.property_id = p.id
			WHERE p.owner_id = $1
		`, ownerID).Scan(&dash.UnitCount, &dash.OccupiedUnits, &dash.VacantUnits)
	})
	run("tenants_leases", func() error {
		return s.PG.QueryRowContext(ctx, `
			SELECT (SELECT COUNT(*) FROM tenants WHERE owner_id = $1),
			       (SELECT COUNT(*) FROM leases l
			        JOIN units u ON l.unit_id = u.id
			        JOIN properties p ON u.property_id = p.id
			        WHERE p.owner_id = $1 AND l.status = 'active')
		`, ownerID).Scan(&dash.TenantCount, &dash.ActiveLeases)
	})
	run("payments", func() error {
		now := time.Now()
		return s.PG.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(pay.amount), 0)
			FROM payments pay
			JOIN leases l ON pay.lease_id = l.id
			JOIN units u ON l.unit_id = u.id
			JOIN properties p ON u.property_id = p.id
			WHERE p.owner_id = $1 AND pay.period_month = $2 AND pay.period_year = $3
		`, ownerID, int(now.Month()), now.Year()).Scan(&dash.PaymentsThisMonth)
	})
	run("maintenance", func() error {
		return s.PG.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM maintenance_requests m
			JOIN units u ON m.unit_id = u.id
			JOIN properties p ON u.property_id = p.id
			WHERE p.owner_id = $1 AND m.status != 'resolved'
		`, ownerID).Scan(&dash.OpenMaintenance)
	})

	wg.Wait()
	for _, r := range results {
		if r.err != nil {
			return dash, fmt.Errorf("failed to load %s stats: %w", r.name, r.err)
		}
	}

	s.cache(ctx, cacheKey, dash)
	return dash, nil
}

// AdminDashboard returns platform-wide numbers. Callers must already have
// verified the super admin role.
func (s *DashboardService) AdminDashboard(ctx context.Context) (db.AdminDashboard, error) {
	cacheKey := "dashboard:admin"
	var dash db.AdminDashboard

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			if json.Unmarshal([]byte(cached), &dash) == nil {
				return dash, nil
			}
		}
	}

	err := s.PG.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM profiles),
		       (SELECT COUNT(*) FROM profiles WHERE approval_status = 'pending'),
		       (SELECT COUNT(*) FROM properties),
		       (SELECT COUNT(*) FROM units),
		       (SELECT COUNT(*) FROM leases WHERE status = 'active')
	`).Scan(&dash.TotalOwners, &dash.PendingApprovals, &dash.TotalProperties, &dash.TotalUnits, &dash.TotalLeases)
	if err != nil {
		return dash, fmt.Errorf("failed to load admin stats: %w", err)
	}

	s.cache(ctx, cacheKey, dash)
	return dash, nil
}

func (s *DashboardService) cache(ctx context.Context, key string, v interface{}) {
	if s.Redis == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, b, dashboardCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache dashboard %s: %v", key, err)
	}
}
