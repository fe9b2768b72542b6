package handler

import (
	"net/http"
	"strconv"

	jobUsecase "jobbee-api/internal/usecase/job"
	appErrors "jobbee-api/pkg/errors"
	"jobbee-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHandler exposes the job listing endpoints.
type JobHandler struct {
	service *jobUsecase.Service
}

func NewJobHandler(service *jobUsecase.Service) *JobHandler {
	return &JobHandler{service: service}
}

// RegisterRoutes wires the public, read-only job endpoints.
func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/jobs", h.List)
	r.GET("/jobs/:zipcode/:distance", h.WithinRadius)
	r.GET("/job/:id/:slug", h.GetByIDAndSlug)
	r.GET("/stats/:topic", h.Stats)
}

// RegisterEmployerRoutes wires the endpoints restricted to employers.
func (h *JobHandler) RegisterEmployerRoutes(r *gin.RouterGroup) {
	r.POST("/job/new", h.Create)
	r.PUT("/job/:id", h.Update)
	r.DELETE("/job/:id", h.Delete)
}

// RegisterApplicantRoutes wires the endpoints restricted to applicants.
func (h *JobHandler) RegisterApplicantRoutes(r *gin.RouterGroup) {
	r.PUT("/job/:id/apply", h.Apply)
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.service.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.ListResponse(c, http.StatusOK, len(jobs), jobs)
}

func (h *JobHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req jobUsecase.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller.ID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Job created successfully", created)
}

func (h *JobHandler) GetByIDAndSlug(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, appErrors.ErrJobNotFound)
		return
	}

	j, err := h.service.GetByIDAndSlug(c.Request.Context(), jobID, c.Param("slug"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", j)
}

func (h *JobHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, appErrors.ErrJobNotFound)
		return
	}

	var req jobUsecase.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), jobID, caller, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job updated successfully", updated)
}

func (h *JobHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, appErrors.ErrJobNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), jobID, caller); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job deleted successfully", nil)
}

func (h *JobHandler) WithinRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || distance <= 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid search distance")
		return
	}

	jobs, err := h.service.WithinRadius(c.Request.Context(), c.Param("zipcode"), distance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.ListResponse(c, http.StatusOK, len(jobs), jobs)
}

func (h *JobHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("topic"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// Apply accepts a multipart resume upload under the "file" field and records
// the application.
func (h *JobHandler) Apply(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, appErrors.ErrJobNotFound)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondWithError(c, appErrors.ErrNoResume)
		return
	}
	defer file.Close()

	upload := &jobUsecase.ResumeUpload{
		FileName:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}

	resumeName, err := h.service.Apply(c.Request.Context(), jobID, caller.ID, upload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Applied to job successfully", gin.H{
		"resume": resumeName,
	})
}
