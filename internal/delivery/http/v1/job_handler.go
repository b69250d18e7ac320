package v1

import (
	"math"
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase, employerOnly gin.HandlerFunc) {
	handler := &JobHandler{jobUC: jobUC}

	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	// Ownership is checked by the usecase
	protectedJobs := protected.Group("/jobs", employerOnly)
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
	}
}

type CreateJobRequest struct {
	Title       string    `json:"title" binding:"required,not_blank,max=200"`
	Description string    `json:"description" binding:"required,not_blank"`
	Skills      SkillList `json:"skills" binding:"required"`
	Salary      float64   `json:"salary" binding:"required,gt=0"`
	Location    string    `json:"location" binding:"required,not_blank,max=200"`
}

// UpdateJobRequest fields are optional; only supplied fields change.
type UpdateJobRequest struct {
	Title       *string    `json:"title" binding:"omitempty,not_blank,max=200"`
	Description *string    `json:"description" binding:"omitempty,not_blank"`
	Skills      *SkillList `json:"skills"`
	Salary      *float64   `json:"salary" binding:"omitempty,gt=0"`
	Location    *string    `json:"location" binding:"omitempty,not_blank,max=200"`
}

func (r UpdateJobRequest) patch() domain.JobPatch {
	p := domain.JobPatch{
		Title:       r.Title,
		Description: r.Description,
		Salary:      r.Salary,
		Location:    r.Location,
	}
	if r.Skills != nil {
		p.Skills = *r.Skills
		p.SkillsSet = true
	}
	return p
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Post a new job (employer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), c.GetString(string(domain.KeyUserID)), &domain.Job{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Salary:      req.Salary,
		Location:    req.Location,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Filter and paginate jobs. All filters combine with AND.
// @Tags         jobs
// @Produce      json
// @Param        keyword    query     string  false  "Substring of title or description"
// @Param        location   query     string  false  "Substring of location"
// @Param        minSalary  query     number  false  "Minimum salary (inclusive)"
// @Param        maxSalary  query     number  false  "Maximum salary (inclusive)"
// @Param        skills     query     string  false  "Comma-separated skills, all required"
// @Param        employer   query     string  false  "Employer user ID"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 10, max 100)"
// @Success      200        {object}  response.Response{data=domain.JobPage}
// @Failure      400        {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	filter := domain.JobFilter{
		Keyword:    c.Query("keyword"),
		Location:   c.Query("location"),
		Skills:     domain.ParseSkills(c.Query("skills")),
		EmployerID: c.Query("employer"),
	}

	var err error
	if filter.MinSalary, err = queryFloat(c, "minSalary"); err != nil {
		c.Error(err)
		return
	}
	if filter.MaxSalary, err = queryFloat(c, "maxSalary"); err != nil {
		c.Error(err)
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.Error(err)
		return
	}
	limit, err := queryInt(c, "limit", domain.DefaultPageSize)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.jobUC.ListJobs(c.Request.Context(), filter, page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", result)
}

// GetJob godoc
// @Summary      Get a job
// @Description  Job details including the employer's name and email
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := pathID(c, "id", "Invalid job ID")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Partially update a job (owning employer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int               true  "Job ID"
// @Param        job  body      UpdateJobRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", "Invalid job ID")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), id, c.GetString(string(domain.KeyUserID)), req.patch())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
//
// Deleting a job also deletes every application submitted to it; the
// applications table references jobs with ON DELETE CASCADE.
//
// @Summary      Delete a job
// @Description  Delete a job and its applications (owning employer only)
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", "Invalid job ID")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), id, c.GetString(string(domain.KeyUserID))); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted", nil)
}

func pathID(c *gin.Context, name, message string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.BadRequest(message)
	}
	return id, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperror.BadRequest(name + " must be a number")
	}
	return &v, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.BadRequest(name + " must be an integer")
	}
	return v, nil
}
