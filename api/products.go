package api

import (
	"net/http"
	"strconv"

	"github.com/example/marketplace/pkg/models"
	"github.com/example/marketplace/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createProductRequest struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Category           string   `json:"category" binding:"required"`
	Price              float64  `json:"price" binding:"required,gt=0"`
	Unit               string   `json:"unit" binding:"required"`
	Stock              int      `json:"stock" binding:"min=0"`
	Images             []string `json:"images"`
	IsAvailable        *bool    `json:"is_available"`
	DiscountPercentage float64  `json:"discount_percentage"`
	QualityGrade       string   `json:"quality_grade"`
}

func (s *Server) listProducts(c *gin.Context) {
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	products, err := s.products.List(c.Request.Context(), repository.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")

	if s.cache != nil {
		if product, err := s.cache.GetProduct(c.Request.Context(), id); err == nil {
			c.JSON(http.StatusOK, product)
			return
		}
	}

	product, err := s.products.FindByID(c.Request.Context(), id)
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}

	if s.cache != nil {
		if err := s.cache.CacheProduct(c.Request.Context(), product); err != nil {
			s.logger.Warn("Product cache write failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.Categories)
}

// listVendorProducts returns the caller's own products; admins see all.
func (s *Server) listVendorProducts(c *gin.Context) {
	user := currentUser(c)

	var (
		products []models.Product
		err      error
	)
	if user.Role == models.RoleAdmin {
		products, err = s.products.ListAll(c.Request.Context())
	} else {
		products, err = s.products.ListByVendor(c.Request.Context(), user.ID.Hex())
	}
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c *gin.Context) {
	user := currentUser(c)

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	product := &models.Product{
		VendorID:           user.ID.Hex(),
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Price:              req.Price,
		Unit:               req.Unit,
		Stock:              req.Stock,
		Images:             req.Images,
		IsAvailable:        available,
		DiscountPercentage: req.DiscountPercentage,
		QualityGrade:       req.QualityGrade,
	}
	if err := s.products.Create(c.Request.Context(), product); err != nil {
		s.abortError(c, err, "Product")
		return
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("vendor_id", product.VendorID))
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	product, err := s.products.FindByID(c.Request.Context(), id)
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}
	if user.Role != models.RoleAdmin && product.VendorID != user.ID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this product"})
		return
	}

	var patch models.ProductUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	updated, err := s.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}
	s.invalidateProductCache(c, id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteProduct(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	product, err := s.products.FindByID(c.Request.Context(), id)
	if err != nil {
		s.abortError(c, err, "Product")
		return
	}
	if user.Role != models.RoleAdmin && product.VendorID != user.ID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this product"})
		return
	}

	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		s.abortError(c, err, "Product")
		return
	}
	s.invalidateProductCache(c, id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (s *Server) invalidateProductCache(c *gin.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(c.Request.Context(), id); err != nil {
		s.logger.Warn("Product cache invalidation failed", zap.String("product_id", id), zap.Error(err))
	}
}
