package v1

import (
	"errors"
	"io"
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, developerOnly, employerOnly gin.HandlerFunc) {
	handler := &ApplicationHandler{appUC: appUC}

	apps := protected.Group("/applications")
	{
		// Developer
		apps.POST("/:id", developerOnly, handler.Apply)
		apps.GET("/my", developerOnly, handler.ListMine)

		// Employer
		apps.GET("/job/:id", employerOnly, handler.ListForJob)
		apps.PUT("/:id", employerOnly, handler.UpdateStatus)
	}
}

type ApplyRequest struct {
	Message string `json:"message" binding:"max=5000"`
	Resume  string `json:"resume" binding:"max=2048"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewed accepted rejected"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Submit an application for a job (developer only). The body is optional.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        jobId        path      int           true   "Job ID"
// @Param        application  body      ApplyRequest  false  "Cover message and resume link"
// @Success      201          {object}  response.Response{data=domain.Application}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      409          {object}  response.Response
// @Router       /applications/{jobId} [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := pathID(c, "id", "Invalid job ID")
	if err != nil {
		c.Error(err)
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	app, err := h.appUC.ApplyToJob(c.Request.Context(), domain.ApplyInput{
		JobID:       jobID,
		DeveloperID: c.GetString(string(domain.KeyUserID)),
		Message:     req.Message,
		Resume:      req.Resume,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ListMyApplications godoc
// @Summary      My applications
// @Description  Applications submitted by the authenticated developer, newest first
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /applications/my [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.appUC.GetMyApplications(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// ListJobApplications godoc
// @Summary      Applicants for a job
// @Description  Applications received for a job owned by the authenticated employer
// @Tags         applications
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.Application}
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /applications/job/{jobId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, err := pathID(c, "id", "Invalid job ID")
	if err != nil {
		c.Error(err)
		return
	}

	apps, err := h.appUC.ListByJobID(c.Request.Context(), c.GetString(string(domain.KeyUserID)), jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// UpdateApplicationStatus godoc
// @Summary      Update application status
// @Description  Move an application forward: applied → reviewed → accepted or rejected
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      int                  true  "Application ID"
// @Param        status  body      UpdateStatusRequest  true  "New status"
// @Success      200     {object}  response.Response{data=domain.Application}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	appID, err := pathID(c, "id", "Invalid application ID")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	app, err := h.appUC.UpdateApplicationStatus(c.Request.Context(), c.GetString(string(domain.KeyUserID)), appID, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}
