package api

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/example/marketplace/pkg/models"
	"github.com/gin-gonic/gin"
)

type createVendorProfileRequest struct {
	StoreName        string   `json:"store_name" binding:"required"`
	StoreDescription string   `json:"store_description"`
	StoreImage       string   `json:"store_image"`
	Address          string   `json:"address" binding:"required"`
	Latitude         float64  `json:"latitude" binding:"required"`
	Longitude        float64  `json:"longitude" binding:"required"`
	Phone            string   `json:"phone" binding:"required"`
	WorkingHours     string   `json:"working_hours"`
	DeliveryOptions  []string `json:"delivery_options"`
	TaxNumber        string   `json:"tax_number"`
}

func (s *Server) createVendorProfile(c *gin.Context) {
	user := currentUser(c)

	var req createVendorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	profile := &models.VendorProfile{
		UserID:           user.ID.Hex(),
		StoreName:        req.StoreName,
		StoreDescription: req.StoreDescription,
		StoreImage:       req.StoreImage,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Phone:            req.Phone,
		WorkingHours:     req.WorkingHours,
		DeliveryOptions:  req.DeliveryOptions,
		TaxNumber:        req.TaxNumber,
		IsApproved:       false,
		Rating:           0,
		TotalOrders:      0,
	}
	if err := s.vendors.Create(c.Request.Context(), profile); err != nil {
		s.abortError(c, err, "Vendor profile")
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (s *Server) myVendorProfile(c *gin.Context) {
	profile, err := s.vendors.FindByUser(c.Request.Context(), currentUser(c).ID.Hex())
	if err != nil {
		s.abortError(c, err, "Vendor profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) listApprovedVendors(c *gin.Context) {
	profiles, err := s.vendors.ListApproved(c.Request.Context())
	if err != nil {
		s.abortError(c, err, "Vendor")
		return
	}
	if profiles == nil {
		profiles = []models.VendorProfile{}
	}
	c.JSON(http.StatusOK, profiles)
}

// nearbyVendors filters approved vendors within radius kilometers of
// the given point. Distance is a flat-earth approximation: straight
// degree deltas scaled by ~111 km per degree, no great-circle math.
func (s *Server) nearbyVendors(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid latitude"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid longitude"})
		return
	}
	radius := 10.0
	if raw := c.Query("radius"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius"})
			return
		}
	}

	profiles, err := s.vendors.ListApproved(c.Request.Context())
	if err != nil {
		s.abortError(c, err, "Vendor")
		return
	}

	nearby := make([]models.VendorProfile, 0)
	for _, p := range profiles {
		latDiff := math.Abs(p.Latitude - lat)
		lonDiff := math.Abs(p.Longitude - lon)
		distance := math.Sqrt(latDiff*latDiff + lonDiff*lonDiff)
		if distance <= radius/111 {
			p.Distance = math.Round(distance*111*100) / 100
			nearby = append(nearby, p)
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })

	c.JSON(http.StatusOK, nearby)
}

func (s *Server) getVendorProfile(c *gin.Context) {
	profile, err := s.vendors.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortError(c, err, "Vendor")
		return
	}
	c.JSON(http.StatusOK, profile)
}
