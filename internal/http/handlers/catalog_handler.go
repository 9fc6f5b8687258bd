// README: Static dashboard content: model comparison table and image assets.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farecast/internal/modules/assets"
	"farecast/internal/modules/comparison"
)

type CatalogHandler struct {
	assets *assets.Catalog
}

func NewCatalogHandler(catalog *assets.Catalog) *CatalogHandler {
	return &CatalogHandler{assets: catalog}
}

func (h *CatalogHandler) Comparison(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"rows": comparison.Rows(),
		"best": comparison.Best().Model,
	})
}

// Assets lists every referenced image; missing files appear as warnings, never errors.
func (h *CatalogHandler) Assets(c *gin.Context) {
	warnings := h.assets.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(c, http.StatusOK, gin.H{
		"assets":   h.assets.Manifest(),
		"warnings": warnings,
	})
}

func (h *CatalogHandler) Serve(c *gin.Context) {
	path, err := h.assets.Path(c.Param("name"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.File(path)
}
