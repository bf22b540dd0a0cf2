package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/teste-tivit/secure-api/internal/api/metrics"
	"github.com/teste-tivit/secure-api/internal/api/middleware"
	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

// ProtectedHandler serves the role-gated routes that proxy the downstream
// fake API and report the caller's identity.
type ProtectedHandler struct {
	external ports.ExternalService
}

func NewProtectedHandler(external ports.ExternalService) *ProtectedHandler {
	return &ProtectedHandler{external: external}
}

// User handles GET /user.
//
// @Summary      Fetch and store downstream user data
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  apiResponse
// @Router       /user [get]
func (h *ProtectedHandler) User(c echo.Context) error {
	return h.fetchEndpoint(c, "user", "user_info", "User data retrieved successfully")
}

// Admin handles GET /admin.
//
// @Summary      Fetch and store downstream admin data
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  apiResponse
// @Router       /admin [get]
func (h *ProtectedHandler) Admin(c echo.Context) error {
	return h.fetchEndpoint(c, "admin", "admin_info", "Admin data retrieved successfully")
}

// ExternalHealth handles GET /external-health.
//
// @Summary      Check downstream service health
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  apiResponse
// @Router       /external-health [get]
func (h *ProtectedHandler) ExternalHealth(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	result, err := h.external.FetchAndStore(c.Request().Context(), "health")
	if err != nil {
		metrics.ExternalRequestsTotal.WithLabelValues("health", "error").Inc()
		return c.JSON(http.StatusBadGateway, apiResponse{
			Success:    false,
			Message:    "External health check failed",
			Error:      err.Error(),
			StatusCode: http.StatusBadGateway,
		})
	}
	h.countFetch("health", result)

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "External health check completed successfully",
		Data: map[string]any{
			"health_status": result.Data,
			"stored_id":     result.StoredID,
			"checked_by": map[string]string{
				"username": identity.Username,
				"role":     identity.Role,
			},
		},
		StatusCode: result.StatusCode,
		StoredID:   result.StoredID,
	})
}

// Records handles GET /admin/records.
//
// @Summary      List stored downstream records
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of records"
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/records [get]
func (h *ProtectedHandler) Records(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	records, err := h.external.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Stored records retrieved successfully",
		Data: map[string]any{
			"count":   len(records),
			"records": records,
		},
		StatusCode: http.StatusOK,
	})
}

// Profile handles GET /profile.
//
// @Summary      Current user profile
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *ProtectedHandler) Profile(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "User profile retrieved successfully",
		Data: map[string]any{
			"username":  identity.Username,
			"role":      identity.Role,
			"is_active": identity.Active,
			"permissions": map[string]bool{
				"can_access_user_resources":  identity.CanAccessUserResources(),
				"can_access_admin_resources": identity.CanAccessAdminResources(),
				"is_admin":                   identity.IsAdmin(),
				"is_user":                    identity.IsUser(),
			},
		},
		StatusCode: http.StatusOK,
	})
}

func (h *ProtectedHandler) fetchEndpoint(c echo.Context, endpoint, infoKey, message string) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	result, err := h.external.FetchAndStore(c.Request().Context(), endpoint)
	if err != nil {
		metrics.ExternalRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return c.JSON(http.StatusBadGateway, apiResponse{
			Success:    false,
			Message:    "Failed to retrieve " + endpoint + " data",
			Error:      err.Error(),
			StatusCode: http.StatusBadGateway,
		})
	}
	h.countFetch(endpoint, result)

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: message,
		Data: map[string]any{
			infoKey: domain.Identity{
				Username: identity.Username,
				Role:     identity.Role,
				Active:   identity.Active,
			},
			"external_data": result.Data,
			"stored_id":     result.StoredID,
		},
		StatusCode: result.StatusCode,
		StoredID:   result.StoredID,
	})
}

func (h *ProtectedHandler) countFetch(endpoint string, result *ports.FetchResult) {
	metrics.ExternalRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	if result.Cached {
		metrics.ExternalCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.ExternalCacheTotal.WithLabelValues("miss").Inc()
	}
}
