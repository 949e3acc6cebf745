package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cell-monitor/internal/api/models"
	"cell-monitor/internal/model"
)

var chemistryDescriptions = map[model.Chemistry]string{
	model.ChemistryLFP: "Lithium iron phosphate.",
	model.ChemistryNMC: "Nickel manganese cobalt. Also used for any unrecognized cell type.",
}

// ListChemistries handles GET /api/v1/chemistries
func ListChemistries(c *gin.Context) {
	chems := model.Chemistries()
	out := make([]models.ChemistryInfo, 0, len(chems))
	for _, ch := range chems {
		b := ch.Bounds()
		out = append(out, models.ChemistryInfo{
			Name:           ch.String(),
			Description:    chemistryDescriptions[ch],
			NominalVoltage: b.Nominal,
			MinVoltage:     b.Min,
			MaxVoltage:     b.Max,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chemistries": out})
}
