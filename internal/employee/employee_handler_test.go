package employee_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-staff/internal/employee"
	employeeerrors "go-staff/internal/employee/errors"
	employeeMock "go-staff/internal/employee/mock"
	"go-staff/internal/middleware"
	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/pagination"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Count      int64   `json:"count"`
		Page       int     `json:"page"`
		PageSize   int     `json:"page_size"`
		TotalPages int     `json:"total_pages"`
		Next       *string `json:"next"`
		Previous   *string `json:"previous"`
	} `json:"meta"`
	Error *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func setupHandlerTest(t *testing.T) (*gin.Engine, *employeeMock.MockService) {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	svc := employeeMock.NewMockService(gomock.NewController(t))
	h := employee.NewHandler(svc)

	r := gin.New()
	g := r.Group("/employees", func(c *gin.Context) { c.Set(middleware.ContextUserID, uint(7)) })
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/get_employee/", h.GetMine)
	g.GET("/:id/", h.GetByID)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Patch)
	g.DELETE("/:id/", h.Delete)
	return r, svc
}

func serve(r http.Handler, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHandler_List(t *testing.T) {
	t.Run("first of two pages", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		items := make([]employee.EmployeeResponse, 10)
		svc.EXPECT().
			List(gomock.Any(), employee.ListQuery{Department: "HR"}, pagination.Page{Number: 1, Size: 10}).
			Return(items, int64(15), nil)

		w, env := serve(r, http.MethodGet, "/employees/?department=HR", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(15), env.Meta.Count)
		assert.Equal(t, 2, env.Meta.TotalPages)
		assert.Equal(t, "http://example.com/employees/?department=HR&page=2", *env.Meta.Next)
		assert.Nil(t, env.Meta.Previous)
	})

	t.Run("my record flag uses the caller", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().
			List(gomock.Any(), employee.ListQuery{UserID: 7, Search: "ann", Ordering: "-name"}, pagination.Page{Number: 1, Size: 10}).
			Return([]employee.EmployeeResponse{}, int64(0), nil)

		w, _ := serve(r, http.MethodGet, "/employees/?get_employee=1&search=ann&ordering=-name", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non numeric page", func(t *testing.T) {
		r, _ := setupHandlerTest(t)

		w, env := serve(r, http.MethodGet, "/employees/?page=abc", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Invalid page.", env.Error.Message)
	})

	t.Run("page past the end", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, int64(3), pagination.ErrInvalidPage)

		w, _ := serve(r, http.MethodGet, "/employees/?page=9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Create(t *testing.T) {
	t.Run("created with location", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().
			Create(gomock.Any(), employee.CreateEmployeeRequest{UserID: 3, Department: "HR"}).
			Return(employee.EmployeeResponse{ID: 12, UserID: 3, Department: "HR"}, nil)

		w, env := serve(r, http.MethodPost, "/employees/", map[string]any{"user_id": 3, "department": "HR"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/employees/12/", w.Header().Get("Location"))
		assert.True(t, env.Ok)
	})

	t.Run("user_id is required", func(t *testing.T) {
		r, _ := setupHandlerTest(t)

		w, env := serve(r, http.MethodPost, "/employees/", map[string]any{"department": "HR"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"This field is required."}, env.Error.Details["user_id"])
	})

	t.Run("user already has a record", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(employee.EmployeeResponse{}, employeeerrors.ErrUserAlreadyEmployee)

		w, env := serve(r, http.MethodPost, "/employees/", map[string]any{"user_id": 3})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Details, "user_id")
	})
}

func TestHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().GetByID(gomock.Any(), uint(5)).Return(employee.EmployeeResponse{ID: 5, DateJoined: "2024-01-02"}, nil)

		w, env := serve(r, http.MethodGet, "/employees/5/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"date_joined":"2024-01-02"`)
	})

	t.Run("non numeric id is not found", func(t *testing.T) {
		r, _ := setupHandlerTest(t)

		w, _ := serve(r, http.MethodGet, "/employees/abc/", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_GetMine(t *testing.T) {
	r, svc := setupHandlerTest(t)
	svc.EXPECT().GetMine(gomock.Any(), uint(7)).Return(employee.EmployeeResponse{}, employeeerrors.ErrNoEmployeeRecord)

	w, env := serve(r, http.MethodGet, "/employees/get_employee/", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "You do not have an employee record yet.", env.Error.Message)
}

func TestHandler_UpdateAndPatch(t *testing.T) {
	t.Run("put requires user_id", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().GetByID(gomock.Any(), uint(1)).Return(employee.EmployeeResponse{ID: 1}, nil)

		w, env := serve(r, http.MethodPut, "/employees/1/", map[string]any{"role": "Lead"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Details, "user_id")
	})

	t.Run("put", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().GetByID(gomock.Any(), uint(1)).Return(employee.EmployeeResponse{ID: 1}, nil)
		svc.EXPECT().Update(gomock.Any(), uint(1), employee.CreateEmployeeRequest{UserID: 2, Role: "Lead"}).
			Return(employee.EmployeeResponse{ID: 1, Role: "Lead"}, nil)

		w, _ := serve(r, http.MethodPut, "/employees/1/", map[string]any{"user_id": 2, "role": "Lead"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("patch sends only present fields", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().GetByID(gomock.Any(), uint(1)).Return(employee.EmployeeResponse{ID: 1}, nil)
		svc.EXPECT().Patch(gomock.Any(), uint(1), gomock.Any()).
			DoAndReturn(func(_ any, _ uint, req employee.PatchEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Nil(t, req.UserID)
				assert.Nil(t, req.Role)
				assert.Equal(t, "Ops", *req.Department)
				return employee.EmployeeResponse{ID: 1, Department: "Ops"}, nil
			})

		w, _ := serve(r, http.MethodPatch, "/employees/1/", map[string]any{"department": "Ops"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("patch rejects long department", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().GetByID(gomock.Any(), uint(1)).Return(employee.EmployeeResponse{ID: 1}, nil)
		long := string(bytes.Repeat([]byte("x"), 101))

		w, env := serve(r, http.MethodPatch, "/employees/1/", map[string]any{"department": long})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Details, "department")
	})

	t.Run("invalid body on unknown id is not found", func(t *testing.T) {
		for _, method := range []string{http.MethodPut, http.MethodPatch} {
			r, svc := setupHandlerTest(t)
			svc.EXPECT().GetByID(gomock.Any(), uint(404)).Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound)

			w, env := serve(r, method, "/employees/404/", map[string]any{"department": 12})

			assert.Equal(t, http.StatusNotFound, w.Code, method)
			assert.Equal(t, apperror.CodeNotFound, env.Error.Code, method)
		}
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Delete(gomock.Any(), uint(3)).Return(nil)

		w, _ := serve(r, http.MethodDelete, "/employees/3/", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("unknown", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Delete(gomock.Any(), uint(3)).Return(employeeerrors.ErrEmployeeNotFound)

		w, _ := serve(r, http.MethodDelete, "/employees/3/", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
