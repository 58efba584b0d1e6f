package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopassist-backend/internal/domain"
	profilesvc "shopassist-backend/internal/service/profile"
)

func getProfileHandler(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil {
			respondError(c, http.StatusUnauthorized, "Access token required")
			return
		}
		respondData(c, http.StatusOK, toUserView(*u))
	}
}

func updateProfileHandler(logger *log.Logger, svc ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profilesvc.ProfileUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), requesterID(c), in)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, toUserView(*u), "Profile updated successfully")
	}
}

func getPreferencesHandler(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil {
			respondError(c, http.StatusUnauthorized, "Access token required")
			return
		}
		respondData(c, http.StatusOK, u.Preferences)
	}
}

func updatePreferencesHandler(logger *log.Logger, svc ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profilesvc.PreferencesUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := svc.UpdatePreferences(c.Request.Context(), requesterID(c), in)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, u.Preferences, "Preferences updated successfully")
	}
}

func addAddressHandler(logger *log.Logger, svc ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addr domain.Address
		if err := c.ShouldBindJSON(&addr); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := svc.AddAddress(c.Request.Context(), requesterID(c), addr)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, u.Addresses, "Address added successfully")
	}
}

func addressIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		respondError(c, http.StatusBadRequest, "Invalid address index")
		return 0, false
	}
	return idx, true
}

func updateAddressHandler(logger *log.Logger, svc ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, ok := addressIndex(c)
		if !ok {
			return
		}
		var in profilesvc.AddressUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := svc.UpdateAddress(c.Request.Context(), requesterID(c), idx, in)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, u.Addresses, "Address updated successfully")
	}
}

func deleteAddressHandler(logger *log.Logger, svc ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, ok := addressIndex(c)
		if !ok {
			return
		}
		u, err := svc.DeleteAddress(c.Request.Context(), requesterID(c), idx)
		if err != nil {
			respondServiceError(c, logger, err)
			return
		}
		respondMessage(c, http.StatusOK, u.Addresses, "Address deleted successfully")
	}
}
