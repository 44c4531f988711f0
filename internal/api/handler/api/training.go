package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/api/job"
	"github.com/newthinker/pricedash/internal/api/response"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/numeric"
)

// Trainer forwards training and sample data requests to the backend.
type Trainer interface {
	StartTraining(ctx context.Context, req core.TrainingRequest) (core.TrainingAck, error)
	GenerateSampleData(ctx context.Context) (core.SampleData, error)
}

// Refresher schedules an early dashboard refresh.
type Refresher interface {
	Trigger()
}

// TrainingRequest is the request body for starting a training run. Missing
// fields take their defaults: 10 episodes, with the combined baseline.
type TrainingRequest struct {
	Episodes         core.Number `json:"episodes"`
	UseBaseline      *bool       `json:"useBaseline"`
	BaselineStrategy string      `json:"baselineStrategy"`
}

// Normalize returns the backend request with defaults applied and the
// episode count clamped.
func (r TrainingRequest) Normalize() core.TrainingRequest {
	// Pin the count before converting; Normalize clamps it to the bounds.
	episodes := numeric.Clamp(r.Episodes.Float(), -core.MaxEpisodes, core.MaxEpisodes)
	req := core.TrainingRequest{
		Episodes:         int(episodes),
		UseBaseline:      true,
		BaselineStrategy: r.BaselineStrategy,
	}
	if r.UseBaseline != nil {
		req.UseBaseline = *r.UseBaseline
	}
	return req.Normalize()
}

// TrainingHandler starts training runs and tracks them as jobs.
type TrainingHandler struct {
	trainer   Trainer
	jobs      *job.Store
	refresher Refresher
	logger    *zap.Logger
}

// NewTrainingHandler creates a new training handler. refresher may be nil.
func NewTrainingHandler(trainer Trainer, jobs *job.Store, refresher Refresher, logger *zap.Logger) *TrainingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingHandler{
		trainer:   trainer,
		jobs:      jobs,
		refresher: refresher,
		logger:    logger,
	}
}

// Start forwards a training request and returns the tracking job.
func (h *TrainingHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body TrainingRequest
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDatasetBytes))
	if err != nil {
		response.Fail(w, core.WrapError(core.ErrInvalidRequest, err))
		return
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			response.Fail(w, core.WrapError(core.ErrInvalidRequest, err))
			return
		}
	}
	req := body.Normalize()

	j := h.jobs.Create(job.TypeTraining)
	h.jobs.Update(j.ID, func(j *job.Job) {
		j.Request = &req
	})

	ack, err := h.trainer.StartTraining(r.Context(), req)
	if err != nil {
		coreErr := asCoreError(err)
		h.jobs.Fail(j.ID, coreErr)
		h.logger.Warn("start training failed", zap.String("job_id", j.ID), zap.Error(err))
		response.Fail(w, coreErr)
		return
	}

	h.jobs.Update(j.ID, func(j *job.Job) {
		j.Message = ack.Message
	})
	h.logger.Info("training started",
		zap.String("job_id", j.ID),
		zap.Int("episodes", req.Episodes),
		zap.String("baseline_strategy", req.BaselineStrategy),
	)
	h.trigger()

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id":  j.ID,
		"status":  j.Status,
		"message": ack.Message,
		"request": req,
	})
}

// Get returns one job.
func (h *TrainingHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.jobs.Get(r.PathValue("id"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, j)
}

// List returns all tracked jobs, newest first.
func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.List()
	response.JSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// SampleData asks the backend to regenerate its sample catalogue.
func (h *TrainingHandler) SampleData(w http.ResponseWriter, r *http.Request) {
	j := h.jobs.Create(job.TypeSampleData)

	data, err := h.trainer.GenerateSampleData(r.Context())
	if err != nil {
		coreErr := asCoreError(err)
		h.jobs.Fail(j.ID, coreErr)
		h.logger.Warn("sample data generation failed", zap.String("job_id", j.ID), zap.Error(err))
		response.Fail(w, coreErr)
		return
	}

	h.jobs.Complete(j.ID, "Sample data generated", map[string]int{"products": len(data.Products)})
	h.trigger()

	response.JSON(w, http.StatusOK, map[string]any{
		"job_id":   j.ID,
		"products": data.Products,
	})
}

func (h *TrainingHandler) trigger() {
	if h.refresher != nil {
		h.refresher.Trigger()
	}
}

func asCoreError(err error) *core.Error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return core.WrapError(core.ErrBackendFailed, err)
}
