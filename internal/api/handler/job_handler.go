package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paelladev/gigboard-be/internal/api/domain"
	"github.com/paelladev/gigboard-be/internal/api/dto"
	"github.com/paelladev/gigboard-be/internal/api/model"
	"github.com/paelladev/gigboard-be/internal/api/service"
	"github.com/paelladev/gigboard-be/internal/payment"
)

// ListJobs handles GET /api/v1/jobs
// Lists all jobs, optionally filtered by status.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.Status == "" {
		jobs, err := h.store.ListJobs(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list jobs",
			})
			return
		}

		out := make([]dto.JobDTO, len(jobs))
		for i, job := range jobs {
			out[i] = jobToDTO(&job, "")
		}
		c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: out})
		return
	}

	if !domain.ValidJobStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: active, completed",
		})
		return
	}

	jobs, err := h.store.ListJobsByStatus(c.Request.Context(), req.Status)
	if err != nil {
		h.logger.Error("Failed to list jobs by status",
			slog.String("status", req.Status),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list jobs",
		})
		return
	}

	out := make([]dto.JobDTO, len(jobs))
	for i, job := range jobs {
		out[i] = jobToDTO(&job.Job, job.TransactionHash.String)
	}
	c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: out})
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	resp := jobToDTO(job, "")
	c.JSON(http.StatusOK, resp)
}

// ListJobTransactions handles GET /api/v1/jobs/:job_id/transactions
func (h *JobHandler) ListJobTransactions(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	txs, err := h.store.ListTransactionsByJob(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to list transactions",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list transactions",
		})
		return
	}

	out := make([]dto.TransactionDTO, len(txs))
	for i, tx := range txs {
		out[i] = dto.TransactionDTO{
			ID:              tx.ID,
			JobID:           tx.JobID,
			FromAddress:     tx.FromAddress,
			ToAddress:       tx.ToAddress,
			Amount:          tx.Amount,
			TransactionHash: tx.TransactionHash,
			ExplorerLink:    tx.ExplorerLink.String,
			Status:          tx.Status,
			CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

// CompleteJob handles POST /api/v1/jobs/:job_id/complete
// Pays out the job to the supplied wallet address and records the payout.
func (h *JobHandler) CompleteJob(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req dto.CompleteJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	h.logger.Info("CompleteJob called",
		slog.Int64("job_id", jobID),
		slog.String("wallet_address", req.WalletAddress),
	)

	result, err := h.completion.Complete(c.Request.Context(), &service.CompleteJobInput{
		JobID:                 jobID,
		WalletAddress:         req.WalletAddress,
		SubmissionURL:         req.SubmissionURL,
		SubmissionDescription: req.SubmissionDescription,
	})
	if err != nil {
		h.respondCompletionError(c, jobID, err)
		return
	}

	c.JSON(http.StatusOK, dto.CompleteJobResponse{
		Success:         true,
		TransactionHash: result.TransactionHash,
		ExplorerLink:    result.ExplorerLink,
	})
}

// respondCompletionError maps completion errors onto HTTP statuses.
func (h *JobHandler) respondCompletionError(c *gin.Context, jobID int64, err error) {
	var transferErr *payment.TransferError

	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wallet address",
		})
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Job not found",
		})
	case errors.Is(err, domain.ErrJobAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Job already completed",
		})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		h.logger.Error("Payment gateway unavailable",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment gateway unavailable",
		})
	case errors.As(err, &transferErr):
		h.logger.Error("Transfer rejected",
			slog.Int64("job_id", jobID),
			slog.String("error", transferErr.Message),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Transfer rejected: " + transferErr.Message,
		})
	default:
		h.logger.Error("Failed to complete job",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to complete job",
		})
	}
}

// parseJobID validates the :job_id path parameter.
func parseJobID(c *gin.Context) (int64, bool) {
	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil || jobID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a positive integer",
		})
		return 0, false
	}
	return jobID, true
}

// jobToDTO converts a stored job to its API shape. Required skills are
// stored as a JSON array in a text column; a malformed value renders as an
// empty list rather than failing the request.
func jobToDTO(job *model.Job, txHash string) dto.JobDTO {
	var skills []string
	if job.RequiredSkills != "" {
		_ = json.Unmarshal([]byte(job.RequiredSkills), &skills)
	}

	out := dto.JobDTO{
		ID:                    job.ID,
		Title:                 job.Title,
		Description:           job.Description,
		Category:              job.Category,
		RequiredSkills:        skills,
		PaymentAmount:         job.PaymentAmount,
		Status:                job.Status,
		CompletedBy:           job.CompletedBy.String,
		SubmissionURL:         job.SubmissionURL.String,
		SubmissionDescription: job.SubmissionDescription.String,
		TransactionHash:       txHash,
		CreatedAt:             job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             job.UpdatedAt.Format(time.RFC3339),
	}

	if job.CompletedAt.Valid {
		out.CompletedAt = job.CompletedAt.Time.Format(time.RFC3339)
	}

	return out
}
