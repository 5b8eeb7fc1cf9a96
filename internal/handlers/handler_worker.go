package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/dto"
	"github.com/buildbooks/build_books_app/internal/middleware"
)

// workerHandler handles HTTP requests for the worker registry.
type workerHandler struct {
	workerService portssvc.WorkerSvcFacade
}

// registerWorkerRoutes registers routes related to workers.
func registerWorkerRoutes(rg *gin.RouterGroup, workerService portssvc.WorkerSvcFacade) {
	h := &workerHandler{workerService: workerService}

	workers := rg.Group("/workers")
	{
		workers.POST("", h.createWorker)
		workers.GET("/:id", h.getWorker)
		workers.GET("", h.listWorkers)
		workers.PUT("/:id", h.updateWorker)
		workers.DELETE("/:id", h.deactivateWorker)
	}
}

// createWorker godoc
// @Summary Register a worker
// @Tags workers
// @Accept json
// @Produce json
// @Param worker body dto.CreateWorkerRequest true "Worker details"
// @Success 201 {object} dto.WorkerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /workers [post]
func (h *workerHandler) createWorker(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	worker, err := h.workerService.CreateWorker(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create worker")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Worker registered",
		slog.String("worker_id", worker.WorkerID))
	c.JSON(http.StatusCreated, dto.ToWorkerResponse(worker))
}

// getWorker godoc
// @Summary Get a worker by ID
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id} [get]
func (h *workerHandler) getWorker(c *gin.Context) {
	worker, err := h.workerService.GetWorkerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve worker")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// listWorkers godoc
// @Summary List workers
// @Tags workers
// @Produce json
// @Param activeOnly query bool false "Only active workers"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListWorkersResponse
// @Security BearerAuth
// @Router /workers [get]
func (h *workerHandler) listWorkers(c *gin.Context) {
	workers, err := h.workerService.ListWorkers(c.Request.Context(), c.Query("activeOnly") == "true", queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err, "Failed to list workers")
		return
	}

	resp := dto.ListWorkersResponse{Workers: make([]dto.WorkerResponse, 0, len(workers))}
	for i := range workers {
		resp.Workers = append(resp.Workers, dto.ToWorkerResponse(&workers[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updateWorker godoc
// @Summary Update a worker
// @Tags workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param worker body dto.UpdateWorkerRequest true "Fields to update"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id} [put]
func (h *workerHandler) updateWorker(c *gin.Context) {
	var req dto.UpdateWorkerRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	worker, err := h.workerService.UpdateWorker(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update worker")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// deactivateWorker godoc
// @Summary Deactivate a worker
// @Description Marks the worker inactive; refused while the worker has outstanding advances
// @Tags workers
// @Param id path string true "Worker ID"
// @Success 204 "Deactivated"
// @Failure 409 {object} map[string]string "Worker has outstanding advances"
// @Security BearerAuth
// @Router /workers/{id} [delete]
func (h *workerHandler) deactivateWorker(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.workerService.DeactivateWorker(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to deactivate worker")
		return
	}
	c.Status(http.StatusNoContent)
}
