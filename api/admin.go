package api

import (
	"math"
	"net/http"

	"github.com/example/marketplace/pkg/models"
	"github.com/gin-gonic/gin"
)

// adminStatistics aggregates platform-wide counts with a scan for
// completed-order revenue. No materialized counters; every call reads
// the collections directly.
func (s *Server) adminStatistics(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	customers, err := s.users.CountByRole(ctx, models.RoleCustomer)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	vendors, err := s.users.CountByRole(ctx, models.RoleVendor)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}

	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	pendingOrders, err := s.orders.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	completedOrders, err := s.orders.CountByStatus(ctx, models.StatusCompleted)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}

	completed, err := s.orders.ListByStatus(ctx, models.StatusCompleted)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	var revenue float64
	for _, order := range completed {
		revenue += order.Total
	}

	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}
	activeProducts, err := s.products.CountAvailable(ctx)
	if err != nil {
		s.abortError(c, err, "Statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":     totalUsers,
			"customers": customers,
			"vendors":   vendors,
			"admins":    admins,
		},
		"orders": gin.H{
			"total":     totalOrders,
			"pending":   pendingOrders,
			"completed": completedOrders,
		},
		"revenue": gin.H{
			"total":    math.Round(revenue*100) / 100,
			"currency": "TRY",
		},
		"products": gin.H{
			"total":  totalProducts,
			"active": activeProducts,
		},
	})
}

func (s *Server) adminListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context(), "")
	if err != nil {
		s.abortError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, publicUsers(users))
}

func (s *Server) adminListVendors(c *gin.Context) {
	vendors, err := s.users.List(c.Request.Context(), models.RoleVendor)
	if err != nil {
		s.abortError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, publicUsers(vendors))
}

func publicUsers(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, len(users))
	for i := range users {
		out[i] = users[i].Public()
	}
	return out
}
