package api

import (
	"context"
	"net/http"

	"github.com/example/marketplace/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type orderItemRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type createOrderRequest struct {
	VendorID          string             `json:"vendor_id" binding:"required"`
	Items             []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryFee       float64            `json:"delivery_fee" binding:"min=0"`
	DeliveryAddress   string             `json:"delivery_address" binding:"required"`
	DeliveryLatitude  float64            `json:"delivery_latitude"`
	DeliveryLongitude float64            `json:"delivery_longitude"`
	Phone             string             `json:"phone" binding:"required"`
	DeliveryType      string             `json:"delivery_type" binding:"required,oneof=self platform"`
	Notes             string             `json:"notes"`
}

// createOrder persists a pending order. Stock is taken with a guarded
// decrement per line; if any line cannot be satisfied, the decrements
// already applied are compensated and the order is rejected. The cart
// is cleared only after every decrement succeeded.
func (s *Server) createOrder(c *gin.Context) {
	user := currentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	taken := make([]orderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.compensateStock(taken)
			s.abortError(c, err, "Product")
			return
		}
		taken = append(taken, item)
	}

	items := make([]models.OrderItem, len(req.Items))
	var subtotal float64
	for i, item := range req.Items {
		lineTotal := float64(item.Quantity) * item.Price
		items[i] = models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       lineTotal,
		}
		subtotal += lineTotal
	}

	order := &models.Order{
		UserID:            user.ID.Hex(),
		VendorID:          req.VendorID,
		Items:             items,
		Subtotal:          subtotal,
		DeliveryFee:       req.DeliveryFee,
		Total:             subtotal + req.DeliveryFee,
		DeliveryAddress:   req.DeliveryAddress,
		DeliveryLatitude:  req.DeliveryLatitude,
		DeliveryLongitude: req.DeliveryLongitude,
		Phone:             req.Phone,
		Status:            models.StatusPending,
		DeliveryType:      req.DeliveryType,
		CourierID:         nil,
		Notes:             req.Notes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.compensateStock(taken)
		s.abortError(c, err, "Order")
		return
	}

	if err := s.carts.Clear(ctx, user.ID.Hex()); err != nil {
		s.logger.Warn("Failed to clear cart after order",
			zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", order.UserID),
		zap.String("vendor_id", order.VendorID),
		zap.Float64("total", order.Total))
	c.JSON(http.StatusCreated, order)
}

// compensateStock undoes decrements applied before a failed order.
func (s *Server) compensateStock(taken []orderItemRequest) {
	ctx := context.Background()
	for _, item := range taken {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("Stock compensation failed",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

func (s *Server) listMyOrders(c *gin.Context) {
	orders, err := s.orders.ListByUser(c.Request.Context(), currentUser(c).ID.Hex())
	if err != nil {
		s.abortError(c, err, "Order")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// listVendorOrders returns only orders addressed to the calling vendor.
func (s *Server) listVendorOrders(c *gin.Context) {
	orders, err := s.orders.ListByVendor(c.Request.Context(), currentUser(c).ID.Hex())
	if err != nil {
		s.abortError(c, err, "Order")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// listVendorPanelOrders is the vendor-panel listing with an optional
// status filter; admins see all orders.
func (s *Server) listVendorPanelOrders(c *gin.Context) {
	user := currentUser(c)
	status := c.Query("status")
	if status != "" && !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var (
		orders []models.Order
		err    error
	)
	if user.Role == models.RoleAdmin {
		if status != "" {
			orders, err = s.orders.ListByStatus(c.Request.Context(), status)
		} else {
			orders, err = s.orders.ListAll(c.Request.Context())
		}
	} else {
		orders, err = s.orders.ListByVendor(c.Request.Context(), user.ID.Hex())
	}
	if err != nil {
		s.abortError(c, err, "Order")
		return
	}

	if status != "" && user.Role != models.RoleAdmin {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	user := currentUser(c)

	order, err := s.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortError(c, err, "Order")
		return
	}

	callerID := user.ID.Hex()
	if order.UserID != callerID && order.VendorID != callerID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	user := currentUser(c)
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing status"})
		return
	}
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	order, err := s.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortError(c, err, "Order")
		return
	}
	if user.Role != models.RoleAdmin && order.VendorID != user.ID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}
	if !models.CanTransition(order.Status, status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cannot transition order from " + order.Status + " to " + status,
		})
		return
	}

	if err := s.orders.UpdateStatus(c.Request.Context(), order.ID.Hex(), status); err != nil {
		s.abortError(c, err, "Order")
		return
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("from", order.Status),
		zap.String("to", status))
	order.Status = status
	c.JSON(http.StatusOK, order)
}
