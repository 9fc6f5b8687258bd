// README: Fare estimate and exploratory statistics handlers for a loaded session.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"farecast/internal/modules/eda"
	"farecast/internal/modules/estimator"
	"farecast/internal/modules/session"
	"farecast/internal/modules/trips"
)

type EstimateHandler struct {
	sessions  *session.Manager
	estimator *estimator.Service
}

func NewEstimateHandler(sessions *session.Manager, svc *estimator.Service) *EstimateHandler {
	return &EstimateHandler{sessions: sessions, estimator: svc}
}

type estimateReq struct {
	DistanceMiles float64 `json:"distance_miles"`
	Hour          *int    `json:"hour"`
	Product       string  `json:"product"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
}

type estimateResp struct {
	Price            float64         `json:"price"`
	Currency         string          `json:"currency"`
	Formatted        string          `json:"formatted"`
	Query            estimator.Query `json:"query"`
	Product          string          `json:"product,omitempty"`
	ModelCached      bool            `json:"model_cached"`
	PredictionCached bool            `json:"prediction_cached"`
	Iterations       int             `json:"iterations,omitempty"`
}

func (h *EstimateHandler) Estimate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Hour == nil {
		writeError(c, http.StatusBadRequest, "missing hour")
		return
	}
	in := estimator.QueryInput{
		DistanceMiles: req.DistanceMiles,
		Hour:          *req.Hour,
		Product:       req.Product,
		Origin:        req.Origin,
		Destination:   req.Destination,
	}

	var est estimator.Estimate
	err := h.sessions.WithData(id, func(tbl *trips.Table) error {
		var err error
		est, err = h.estimator.Estimate(c.Request.Context(), tbl, in)
		return err
	})
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, estimateResp{
		Price:            est.Price.Float(),
		Currency:         est.Price.Currency,
		Formatted:        est.Formatted(),
		Query:            est.Query,
		Product:          est.Product,
		ModelCached:      est.ModelCached,
		PredictionCached: est.PredictionCached,
		Iterations:       est.Iterations,
	})
}

// EDA returns summary statistics; ?bins= sets the price histogram resolution.
func (h *EstimateHandler) EDA(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	bins := eda.DefaultBins
	if v := c.Query("bins"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(c, http.StatusBadRequest, "bins must be between 1 and 500")
			return
		}
		bins = n
	}

	var report eda.Report
	err := h.sessions.WithData(id, func(tbl *trips.Table) error {
		report = eda.Analyze(tbl, bins)
		return nil
	})
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}
