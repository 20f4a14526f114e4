// README: Vehicle catalog handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabfare/internal/modules/fare"
)

type VehicleHandler struct {
	catalog *fare.Catalog
}

func NewVehicleHandler(catalog *fare.Catalog) *VehicleHandler {
	return &VehicleHandler{catalog: catalog}
}

// List handles GET /api/vehicles.
func (h *VehicleHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"vehicles": h.catalog.List()})
}
