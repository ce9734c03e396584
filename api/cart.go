package api

import (
	"net/http"

	"github.com/example/marketplace/pkg/models"
	"github.com/example/marketplace/pkg/repository"
	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type removeFromCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// getOrCreateCart is idempotent: a user's first read creates an empty cart.
func (s *Server) getOrCreateCart(c *gin.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(c.Request.Context(), userID)
	if err == nil {
		return cart, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if err := s.carts.Create(c.Request.Context(), cart); err != nil {
		// Lost a race against a concurrent first read; the cart exists now.
		if err == repository.ErrDuplicate {
			return s.carts.FindByUser(c.Request.Context(), userID)
		}
		return nil, err
	}
	return cart, nil
}

func (s *Server) getCart(c *gin.Context) {
	cart, err := s.getOrCreateCart(c, currentUser(c).ID.Hex())
	if err != nil {
		s.abortError(c, err, "Cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) addToCart(c *gin.Context) {
	user := currentUser(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	product, err := s.products.FindByID(c.Request.Context(), req.ProductID)
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}
	if !product.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not available"})
		return
	}
	if product.Stock < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		return
	}

	cart, err := s.getOrCreateCart(c, user.ID.Hex())
	if err != nil {
		s.abortError(c, err, "Cart")
		return
	}

	// Merge quantity when the product is already in the cart; otherwise
	// append a new line with the price snapshotted now.
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     product.Price,
		})
	}
	cart.RecomputeTotal()

	if err := s.carts.SaveItems(c.Request.Context(), user.ID.Hex(), cart.Items, cart.Total); err != nil {
		s.abortError(c, err, "Cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) updateCartItem(c *gin.Context) {
	user := currentUser(c)

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	cart, err := s.carts.FindByUser(c.Request.Context(), user.ID.Hex())
	if err != nil {
		s.abortError(c, err, "Cart")
		return
	}

	found := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == req.ProductID {
			found = true
			// Quantity at or below zero removes the line.
			if req.Quantity <= 0 {
				continue
			}
			item.Quantity = req.Quantity
		}
		items = append(items, item)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}
	cart.Items = items
	cart.RecomputeTotal()

	if err := s.carts.SaveItems(c.Request.Context(), user.ID.Hex(), cart.Items, cart.Total); err != nil {
		s.abortError(c, err, "Cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) removeFromCart(c *gin.Context) {
	user := currentUser(c)

	var req removeFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	cart, err := s.carts.FindByUser(c.Request.Context(), user.ID.Hex())
	if err != nil {
		s.abortError(c, err, "Cart")
		return
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != req.ProductID {
			items = append(items, item)
		}
	}
	cart.Items = items
	cart.RecomputeTotal()

	if err := s.carts.SaveItems(c.Request.Context(), user.ID.Hex(), cart.Items, cart.Total); err != nil {
		s.abortError(c, err, "Cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(c.Request.Context(), currentUser(c).ID.Hex()); err != nil {
		s.abortError(c, err, "Cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
