package handler

import (
	"github.com/gin-gonic/gin"
	orgapp "github.com/quotevoice/backend/internal/application/organization"
)

// OrganizationHandler handles the company profile of the caller's organization
type OrganizationHandler struct {
	BaseHandler
	profileService *orgapp.ProfileService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(profileService *orgapp.ProfileService) *OrganizationHandler {
	return &OrganizationHandler{profileService: profileService}
}

// Get handles GET /organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Update handles PUT /organization. The first call creates the profile.
func (h *OrganizationHandler) Update(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req orgapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
