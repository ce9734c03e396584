package api

import (
	"net/http"
	"time"

	"github.com/example/marketplace/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type recentOrder struct {
	ID        string    `json:"id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type vendorDashboard struct {
	TotalOrdersToday  int           `json:"total_orders_today"`
	TotalRevenueToday float64       `json:"total_revenue_today"`
	PendingOrders     int           `json:"pending_orders"`
	TotalProducts     int           `json:"total_products"`
	ActiveProducts    int           `json:"active_products"`
	LowStockProducts  int           `json:"low_stock_products"`
	TotalOrdersWeek   int           `json:"total_orders_week"`
	TotalRevenueWeek  float64       `json:"total_revenue_week"`
	TotalOrdersMonth  int           `json:"total_orders_month"`
	TotalRevenueMonth float64       `json:"total_revenue_month"`
	RecentOrders      []recentOrder `json:"recent_orders"`
}

const lowStockThreshold = 10

// vendorDashboard buckets the vendor's orders into today/7-day/30-day
// windows and summarizes the product catalog. The payload is cached
// briefly since every call is a full scan of the vendor's orders.
func (s *Server) vendorDashboard(c *gin.Context) {
	user := currentUser(c)
	vendorID := user.ID.Hex()
	ctx := c.Request.Context()

	if s.cache != nil {
		var cached vendorDashboard
		if err := s.cache.GetDashboard(ctx, vendorID, &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := s.products.ListByVendor(ctx, vendorID)
	if err != nil {
		s.abortError(c, err, "Dashboard")
		return
	}
	orders, err := s.orders.ListByVendor(ctx, vendorID)
	if err != nil {
		s.abortError(c, err, "Dashboard")
		return
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	dash := vendorDashboard{RecentOrders: []recentOrder{}}

	dash.TotalProducts = len(products)
	for _, p := range products {
		if p.IsAvailable {
			dash.ActiveProducts++
		}
		if p.Stock < lowStockThreshold {
			dash.LowStockProducts++
		}
	}

	for _, o := range orders {
		if o.Status == models.StatusPending {
			dash.PendingOrders++
		}
		if !o.CreatedAt.Before(today) {
			dash.TotalOrdersToday++
			dash.TotalRevenueToday += o.Total
		}
		if !o.CreatedAt.Before(weekAgo) {
			dash.TotalOrdersWeek++
			dash.TotalRevenueWeek += o.Total
		}
		if !o.CreatedAt.Before(monthAgo) {
			dash.TotalOrdersMonth++
			dash.TotalRevenueMonth += o.Total
		}
	}

	// Orders come back newest first.
	for i, o := range orders {
		if i == 5 {
			break
		}
		dash.RecentOrders = append(dash.RecentOrders, recentOrder{
			ID:        o.ID.Hex(),
			Total:     o.Total,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
		})
	}

	if s.cache != nil {
		if err := s.cache.CacheDashboard(ctx, vendorID, dash); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, dash)
}
