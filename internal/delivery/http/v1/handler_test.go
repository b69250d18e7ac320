package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	employerToken  = "employer-token"
	developerToken = "developer-token"
)

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUsecase) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobUsecase struct{ mock.Mock }

func (m *MockJobUsecase) CreateJob(ctx context.Context, employerID string, job *domain.Job) (*domain.Job, error) {
	args := m.Called(ctx, employerID, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter, page, pageSize int) (*domain.JobPage, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPage), args.Error(1)
}

func (m *MockJobUsecase) UpdateJob(ctx context.Context, id int64, employerID string, patch domain.JobPatch) (*domain.Job, error) {
	args := m.Called(ctx, id, employerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUsecase) DeleteJob(ctx context.Context, id int64, employerID string) error {
	return m.Called(ctx, id, employerID).Error(0)
}

type MockApplicationUsecase struct{ mock.Mock }

func (m *MockApplicationUsecase) ApplyToJob(ctx context.Context, in domain.ApplyInput) (*domain.Application, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) GetMyApplications(ctx context.Context, developerID string) ([]domain.Application, error) {
	args := m.Called(ctx, developerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) ListByJobID(ctx context.Context, employerID string, jobID int64) ([]domain.Application, error) {
	args := m.Called(ctx, employerID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) UpdateApplicationStatus(ctx context.Context, employerID string, applicationID int64, status string) (*domain.Application, error) {
	args := m.Called(ctx, employerID, applicationID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

type MockHealthUsecase struct{ mock.Mock }

func (m *MockHealthUsecase) Check(ctx context.Context) domain.HealthStatus {
	return m.Called(ctx).Get(0).(domain.HealthStatus)
}

type testServer struct {
	router *gin.Engine
	auth   *MockAuthUsecase
	jobs   *MockJobUsecase
	apps   *MockApplicationUsecase
	health *MockHealthUsecase
}

func newTestServer() *testServer {
	s := &testServer{
		auth:   new(MockAuthUsecase),
		jobs:   new(MockJobUsecase),
		apps:   new(MockApplicationUsecase),
		health: new(MockHealthUsecase),
	}
	s.auth.On("VerifyToken", mock.Anything, employerToken).
		Return(&domain.Identity{UserID: "emp-1", Role: domain.RoleEmployer}, nil).Maybe()
	s.auth.On("VerifyToken", mock.Anything, developerToken).
		Return(&domain.Identity{UserID: "dev-1", Role: domain.RoleDeveloper}, nil).Maybe()

	s.router = NewRouter(RouterDeps{
		AuthUC:        s.auth,
		JobUC:         s.jobs,
		ApplicationUC: s.apps,
		HealthUC:      s.health,
		Config: &config.Config{
			FrontendURLs:           []string{"http://localhost:3000"},
			RateLimitWindowSeconds: 60,
		},
	})
	return s
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Validation error", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Alice", "password": "secret1", "role": "employer",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Message, "Email")
		s.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Unknown role", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Alice", "email": "alice@example.com", "password": "secret1", "role": "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		s := newTestServer()
		s.auth.On("Register", mock.Anything, domain.RegisterInput{
			Name: "Alice", Email: "alice@example.com", Password: "secret1", Role: domain.RoleEmployer,
		}).Return(&domain.AuthResult{Token: "tok", User: &domain.User{ID: "emp-1"}}, nil)

		w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Alice", "email": "alice@example.com", "password": "secret1", "role": "employer",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decode(t, w).Success)
		s.auth.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		s := newTestServer()
		s.auth.On("Register", mock.Anything, mock.Anything).Return(nil, apperror.Conflict("Email already registered"))

		w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Alice", "email": "alice@example.com", "password": "secret1", "role": "developer",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	s := newTestServer()
	s.auth.On("Login", mock.Anything, mock.MatchedBy(func(in domain.LoginInput) bool {
		return in.Email == "bob@example.com" && in.Password == "secret1" && in.IP != ""
	})).Return(nil, apperror.Unauthorized("Invalid credentials"))

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w).Message)
	s.auth.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.auth.On("GetCurrentUser", mock.Anything, "dev-1").Return(&domain.User{ID: "dev-1", Name: "Bob"}, nil)
	w = s.do(http.MethodGet, "/api/auth/me", developerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJobHandler_List(t *testing.T) {
	t.Run("Parses filters", func(t *testing.T) {
		s := newTestServer()
		minSalary := 50000.0
		s.jobs.On("ListJobs", mock.Anything, domain.JobFilter{
			Keyword:    "engineer",
			Location:   "remote",
			MinSalary:  &minSalary,
			Skills:     []string{"Go", "SQL"},
			EmployerID: "emp-1",
		}, 2, 5).Return(&domain.JobPage{Jobs: []domain.Job{}, Page: 2, PageSize: 5}, nil)

		w := s.do(http.MethodGet, "/api/jobs?keyword=engineer&location=remote&minSalary=50000&skills=Go,%20SQL,&employer=emp-1&page=2&limit=5", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		s.jobs.AssertExpectations(t)
	})

	t.Run("Defaults", func(t *testing.T) {
		s := newTestServer()
		s.jobs.On("ListJobs", mock.Anything, domain.JobFilter{}, 1, domain.DefaultPageSize).
			Return(&domain.JobPage{Jobs: []domain.Job{}, Page: 1, PageSize: domain.DefaultPageSize}, nil)

		w := s.do(http.MethodGet, "/api/jobs", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		s.jobs.AssertExpectations(t)
	})

	for _, query := range []string{"minSalary=abc", "maxSalary=1e", "page=two", "limit=1.5", "minSalary=NaN", "maxSalary=Inf", "minSalary=-Infinity"} {
		t.Run("Malformed "+query, func(t *testing.T) {
			s := newTestServer()
			w := s.do(http.MethodGet, "/api/jobs?"+query, "", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			s.jobs.AssertNotCalled(t, "ListJobs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestJobHandler_Create(t *testing.T) {
	body := map[string]interface{}{
		"title":       "Backend Engineer",
		"description": "Build APIs",
		"skills":      "Go, SQL",
		"salary":      90000,
		"location":    "Remote",
	}

	t.Run("Requires a token", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/jobs", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Developers are forbidden", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/jobs", developerToken, body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		s.jobs.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Salary must be positive", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/jobs", employerToken, map[string]interface{}{
			"title": "Backend Engineer", "description": "Build APIs", "skills": []string{"Go"}, "salary": -1, "location": "Remote",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Comma-separated skills", func(t *testing.T) {
		s := newTestServer()
		s.jobs.On("CreateJob", mock.Anything, "emp-1", mock.MatchedBy(func(j *domain.Job) bool {
			return j.Title == "Backend Engineer" && assert.ObjectsAreEqual([]string{"Go", "SQL"}, j.Skills)
		})).Return(&domain.Job{ID: 1, Title: "Backend Engineer"}, nil)

		w := s.do(http.MethodPost, "/api/jobs", employerToken, body)
		assert.Equal(t, http.StatusCreated, w.Code)
		s.jobs.AssertExpectations(t)
	})
}

func TestJobHandler_GetUpdateDelete(t *testing.T) {
	t.Run("Invalid id", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodGet, "/api/jobs/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		s := newTestServer()
		s.jobs.On("GetJob", mock.Anything, int64(9)).Return(nil, apperror.NotFound("Job not found"))
		w := s.do(http.MethodGet, "/api/jobs/9", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Partial update", func(t *testing.T) {
		s := newTestServer()
		s.jobs.On("UpdateJob", mock.Anything, int64(3), "emp-1", mock.MatchedBy(func(p domain.JobPatch) bool {
			return p.Title != nil && *p.Title == "Staff Engineer" && !p.SkillsSet && p.Salary == nil
		})).Return(&domain.Job{ID: 3, Title: "Staff Engineer"}, nil)

		w := s.do(http.MethodPut, "/api/jobs/3", employerToken, map[string]string{"title": "Staff Engineer"})
		assert.Equal(t, http.StatusOK, w.Code)
		s.jobs.AssertExpectations(t)
	})

	t.Run("Update with skills", func(t *testing.T) {
		s := newTestServer()
		s.jobs.On("UpdateJob", mock.Anything, int64(3), "emp-1", mock.MatchedBy(func(p domain.JobPatch) bool {
			return p.SkillsSet && assert.ObjectsAreEqual([]string{"Rust"}, p.Skills)
		})).Return(&domain.Job{ID: 3}, nil)

		w := s.do(http.MethodPut, "/api/jobs/3", employerToken, map[string]interface{}{"skills": []string{" Rust ", ""}})
		assert.Equal(t, http.StatusOK, w.Code)
		s.jobs.AssertExpectations(t)
	})

	t.Run("Delete by non-owner", func(t *testing.T) {
		s := newTestServer()
		s.jobs.On("DeleteJob", mock.Anything, int64(3), "emp-1").Return(apperror.Forbidden("You can only delete your own jobs"))
		w := s.do(http.MethodDelete, "/api/jobs/3", employerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestApplicationHandler(t *testing.T) {
	t.Run("Apply with empty body", func(t *testing.T) {
		s := newTestServer()
		s.apps.On("ApplyToJob", mock.Anything, domain.ApplyInput{JobID: 7, DeveloperID: "dev-1"}).
			Return(&domain.Application{ID: 1, JobID: 7, Status: domain.ApplicationStatusApplied}, nil)

		w := s.do(http.MethodPost, "/api/applications/7", developerToken, nil)
		assert.Equal(t, http.StatusCreated, w.Code)
		s.apps.AssertExpectations(t)
	})

	t.Run("Apply with message", func(t *testing.T) {
		s := newTestServer()
		s.apps.On("ApplyToJob", mock.Anything, domain.ApplyInput{JobID: 7, DeveloperID: "dev-1", Message: "interested"}).
			Return(nil, apperror.Conflict("You have already applied to this job"))

		w := s.do(http.MethodPost, "/api/applications/7", developerToken, map[string]string{"message": "interested"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Employers cannot apply", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/applications/7", employerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Invalid job id", func(t *testing.T) {
		s := newTestServer()
		w := s.do(http.MethodPost, "/api/applications/0", developerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List mine", func(t *testing.T) {
		s := newTestServer()
		s.apps.On("GetMyApplications", mock.Anything, "dev-1").Return([]domain.Application{{ID: 1}}, nil)
		w := s.do(http.MethodGet, "/api/applications/my", developerToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("List for job", func(t *testing.T) {
		s := newTestServer()
		s.apps.On("ListByJobID", mock.Anything, "emp-1", int64(7)).Return([]domain.Application{}, nil)
		w := s.do(http.MethodGet, "/api/applications/job/7", employerToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodGet, "/api/applications/job/7", developerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Update status", func(t *testing.T) {
		s := newTestServer()
		s.apps.On("UpdateApplicationStatus", mock.Anything, "emp-1", int64(4), domain.ApplicationStatusAccepted).
			Return(&domain.Application{ID: 4, Status: domain.ApplicationStatusAccepted}, nil)

		w := s.do(http.MethodPut, "/api/applications/4", employerToken, map[string]string{"status": "accepted"})
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodPut, "/api/applications/4", employerToken, map[string]string{"status": "applied"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.apps.AssertNumberOfCalls(t, "UpdateApplicationStatus", 1)
	})
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer()
	s.health.On("Check", mock.Anything).Return(domain.HealthStatus{
		Status:   "degraded",
		Services: map[string]string{"database": "down", "redis": "disabled"},
	}).Once()
	s.health.On("Check", mock.Anything).Return(domain.HealthStatus{
		Status:   "ok",
		Services: map[string]string{"database": "up", "redis": "disabled"},
	}).Once()

	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decode(t, w).Success)

	w = s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSkillList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SkillList
		wantErr bool
	}{
		{"Array", `[" Go ", "", "SQL"]`, SkillList{"Go", "SQL"}, false},
		{"Comma-separated", `"Go, SQL ,,"`, SkillList{"Go", "SQL"}, false},
		{"Empty string", `""`, SkillList{}, false},
		{"Number", `42`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SkillList
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}
