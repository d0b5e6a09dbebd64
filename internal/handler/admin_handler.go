package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/metro-cabs/service-booking/internal/application"
	"github.com/metro-cabs/service-booking/internal/auth"
)

// AdminHandler handles the back-office: login and pricing management.
type AdminHandler struct {
	auth     *auth.Service
	pricing  *application.PricingService
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *auth.Service, pricing *application.PricingService, bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{auth: authService, pricing: pricing, bookings: bookings}
}

// RegisterRoutes registers admin routes. Everything except login sits
// behind the bearer-token middleware.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.POST("/login", h.Login)

	protected := admin.Group("")
	protected.Use(auth.RequireAdmin(jwtManager))
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/pricing", h.GetPricing)
		protected.POST("/cities", h.AddCity)
		protected.DELETE("/cities/:id", h.RemoveCity)
		protected.POST("/routes", h.AddRoute)
		protected.PATCH("/routes/:id", h.UpdateRoute)
		protected.DELETE("/routes/:id", h.DeleteRoute)
		protected.PUT("/local-rates", h.ReplaceLocalRates)
		protected.GET("/bookings", h.ListBookings)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"token": token})
}

// Logout handles POST /api/v1/admin/logout.
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"logged_out": true})
}

// GetPricing handles GET /api/v1/admin/pricing.
func (h *AdminHandler) GetPricing(c *gin.Context) {
	respondSuccess(c, h.pricing.Config())
}

type addCityRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddCity handles POST /api/v1/admin/cities.
func (h *AdminHandler) AddCity(c *gin.Context) {
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	city, err := h.pricing.AddCity(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, city)
}

// RemoveCity handles DELETE /api/v1/admin/cities/:id.
func (h *AdminHandler) RemoveCity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid city ID")
		return
	}

	if err := h.pricing.RemoveCity(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"deleted": true})
}

type addRouteRequest struct {
	FromCity     string  `json:"from_city" binding:"required"`
	ToCity       string  `json:"to_city" binding:"required"`
	Price4Seater float64 `json:"price_4_seater" binding:"required"`
	Price6Seater float64 `json:"price_6_seater" binding:"required"`
}

// AddRoute handles POST /api/v1/admin/routes.
func (h *AdminHandler) AddRoute(c *gin.Context) {
	var req addRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	route, err := h.pricing.AddRoute(c.Request.Context(),
		req.FromCity, req.ToCity, req.Price4Seater, req.Price6Seater)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, route)
}

type updateRoutePricesRequest struct {
	Price4Seater float64 `json:"price_4_seater" binding:"required"`
	Price6Seater float64 `json:"price_6_seater" binding:"required"`
}

// UpdateRoute handles PATCH /api/v1/admin/routes/:id. Only the two price
// fields can change.
func (h *AdminHandler) UpdateRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid route ID")
		return
	}

	var req updateRoutePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	route, err := h.pricing.UpdateRoute(c.Request.Context(), id, req.Price4Seater, req.Price6Seater)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, route)
}

// DeleteRoute handles DELETE /api/v1/admin/routes/:id.
func (h *AdminHandler) DeleteRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid route ID")
		return
	}

	if err := h.pricing.DeleteRoute(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"deleted": true})
}

type replaceLocalRatesRequest struct {
	Normal4SeaterRatePerKm  float64 `json:"normal_4_seater_rate_per_km" binding:"required"`
	Normal6SeaterRatePerKm  float64 `json:"normal_6_seater_rate_per_km" binding:"required"`
	Airport4SeaterRatePerKm float64 `json:"airport_4_seater_rate_per_km" binding:"required"`
	Airport6SeaterRatePerKm float64 `json:"airport_6_seater_rate_per_km" binding:"required"`
}

// ReplaceLocalRates handles PUT /api/v1/admin/local-rates. The rate card is
// replaced wholesale, never patched.
func (h *AdminHandler) ReplaceLocalRates(c *gin.Context) {
	var req replaceLocalRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	rates, err := h.pricing.ReplaceLocalRates(c.Request.Context(),
		req.Normal4SeaterRatePerKm,
		req.Normal6SeaterRatePerKm,
		req.Airport4SeaterRatePerKm,
		req.Airport6SeaterRatePerKm,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, rates)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, total, err := h.bookings.ListBookings(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, bookings, total, page, limit)
}
