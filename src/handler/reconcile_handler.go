package handler

import (
	"net/http"

	"github.com/ecotrack/backend/src/service"
	"github.com/gin-gonic/gin"
)

type ReconcileHandler struct {
	reconcileService *service.ReconcileService
}

func NewReconcileHandler(reconcileService *service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileService: reconcileService}
}

// ReconcileResponse reports the outcome of an on-demand reconcile pass.
type ReconcileResponse struct {
	Message  string `json:"message"`
	Checked  int    `json:"checked"`
	Repaired int    `json:"repaired"`
}

// Reconcile godoc
// @Summary Recount participants counters from enrollment records
// @Tags admin
// @Produce json
// @Success 200 {object} handler.ReconcileResponse
// @Failure 500 {object} handler.MessageResponse
// @Router /admin/reconcile [post]
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	report, err := h.reconcileService.Run(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReconcileResponse{
		Message:  "Reconcile pass complete",
		Checked:  report.Checked,
		Repaired: report.Repaired,
	})
}
