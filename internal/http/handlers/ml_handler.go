// Model lifecycle HTTP handlers.
//
// Training is synchronous: the endpoint blocks until the retrain completes
// and returns the full report. A corpus that cannot produce a model is a
// client problem, so the report comes back with a 400.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartswipe/go-swipe-backend/internal/services"
)

func mlErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrModelNotTrained):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no trained model yet")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeTrainFailed, "training failed")
	}
}

// TrainModel godoc
// @ID          trainModel
// @Summary     Retrain the recommendation model
// @Description Rebuilds the model from all users, ideas and swipes. The training report carries the reason when the corpus cannot fit a model.
// @Tags        ML
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  recs.TrainingReport
// @Failure     400  {object}  recs.TrainingReport      "Corpus too small or single-class"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Training failed"
// @Router      /ml/train [post]
func (h *Handlers) TrainModel(c *gin.Context) {
	report, err := h.recSvc.Train(c.Request.Context())
	if err != nil {
		mlErr(c, err)
		return
	}
	if !report.Trained {
		ok(c, http.StatusBadRequest, report)
		return
	}
	ok(c, http.StatusOK, report)
}

// ModelMetrics godoc
// @ID          modelMetrics
// @Summary     Evaluation metrics of the current model
// @Description Returns the holdout metrics persisted by the last successful training run.
// @Tags        ML
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.ModelMeta
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "No trained model yet"
// @Router      /ml/metrics [get]
func (h *Handlers) ModelMetrics(c *gin.Context) {
	meta, err := h.recSvc.Metrics(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrModelNotTrained) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no trained model yet")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load model metrics")
		return
	}
	ok(c, http.StatusOK, meta)
}

// ModelInfo godoc
// @ID          modelInfo
// @Summary     Model and corpus diagnostics
// @Description Snapshots the in-memory model state together with corpus sizes.
// @Tags        ML
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  services.RecStats
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ml/model-info [get]
func (h *Handlers) ModelInfo(c *gin.Context) {
	info, err := h.recSvc.Info(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load model info")
		return
	}
	ok(c, http.StatusOK, info)
}
