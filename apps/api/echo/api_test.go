package echoapi_test

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/kvstore"
	localdb "github.com/trezcool/academia/storage/local"
)

func setup(t *testing.T) echoapi.Server {
	t.Helper()

	core.Conf.Debug = false // exercise the non-debug error payloads

	kv := kvstore.NewMemStore()
	db := localdb.Open(kv)
	ops := core.NewOpCounter()

	stuRepo := localdb.NewStudentRepository(db)
	crsRepo := localdb.NewCourseRepository(db)
	grdRepo := localdb.NewGradeRepository(db)

	stuSvc := student.NewService(stuRepo, core.NopDelayer, ops)
	crsSvc := course.NewService(crsRepo, core.NopDelayer, ops)
	grdSvc := grade.NewService(grdRepo, stuRepo, crsRepo, core.NopDelayer, ops)
	authSvc := auth.NewService(localdb.NewAuthRepository(db), stuSvc, emailsvc.NewConsoleServiceMock(), core.NopDelayer, ops)

	return echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
			AuthSvc:        authSvc,
			StudentSvc:     stuSvc,
			CourseSvc:      crsSvc,
			GradeSvc:       grdSvc,
		},
	)
}

func do(srv echoapi.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, role auth.Role) string {
	t.Helper()
	ident := auth.Identity{Email: "someone@test.com", Role: role}
	token, err := echoapi.GenerateToken(echoapi.GetIdentityClaims(ident))
	require.NoError(t, err)
	return token
}

func TestHome(t *testing.T) {
	srv := setup(t)

	rec := do(srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Academia")
}

func TestAuthAPI_login(t *testing.T) {
	srv := setup(t)

	rec := do(srv, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "admin@test.com",
		"password": core.Conf.DemoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token    string        `json:"token"`
		Identity auth.Identity `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, auth.RoleAdmin, resp.Identity.Role)

	// bad credentials stay a 400, not a 401
	rec = do(srv, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "admin@test.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentAPI_authz(t *testing.T) {
	srv := setup(t)

	// no token
	rec := do(srv, http.MethodGet, "/v1/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// student can read
	studentToken := getToken(t, auth.RoleStudent)
	rec = do(srv, http.MethodGet, "/v1/students", studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// but not write
	rec = do(srv, http.MethodPost, "/v1/students", studentToken, student.NewStudent{FirstName: "X", LastName: "Y"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin can write
	rec = do(srv, http.MethodPost, "/v1/students", getToken(t, auth.RoleAdmin), student.NewStudent{FirstName: "Jane", LastName: "Doe"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestStudentAPI_crud(t *testing.T) {
	srv := setup(t)
	adminToken := getToken(t, auth.RoleAdmin)

	rec := do(srv, http.MethodGet, "/v1/students", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var students []student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	assert.Len(t, students, 3) // demo seed

	// sorted by last name then first name
	assert.Equal(t, "Dupont", students[0].LastName)

	rec = do(srv, http.MethodGet, "/v1/students/999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// missing required fields -> field error map
	rec = do(srv, http.MethodPost, "/v1/students", adminToken, student.NewStudent{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodDelete, "/v1/students/1", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(srv, http.MethodDelete, "/v1/students/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseAPI_reorder(t *testing.T) {
	srv := setup(t)
	adminToken := getToken(t, auth.RoleAdmin)

	rec := do(srv, http.MethodPost, "/v1/courses", adminToken, course.NewCourse{Title: "Algorithms", Teacher: "Dr. Knuth"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// seeded: [Advanced Programming, Databases], appended: Algorithms
	rec = do(srv, http.MethodPost, "/v1/courses/reorder", adminToken, map[string]int{"from_index": 0, "to_index": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var courses []course.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 3)
	assert.Equal(t, []string{"Databases", "Algorithms", "Advanced Programming"},
		[]string{courses[0].Title, courses[1].Title, courses[2].Title})
	for i, c := range courses {
		assert.Equal(t, i, c.Order)
	}
}

func TestCourseAPI_enroll(t *testing.T) {
	srv := setup(t)
	adminToken := getToken(t, auth.RoleAdmin)

	rec := do(srv, http.MethodPost, "/v1/courses/1/enroll", adminToken, map[string]int64{"student_id": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var c course.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, []int64{2}, c.StudentIDs)

	// idempotent
	rec = do(srv, http.MethodPost, "/v1/courses/1/enroll", adminToken, map[string]int64{"student_id": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, []int64{2}, c.StudentIDs)

	rec = do(srv, http.MethodPost, "/v1/courses/999/enroll", adminToken, map[string]int64{"student_id": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGradeAPI(t *testing.T) {
	srv := setup(t)
	adminToken := getToken(t, auth.RoleAdmin)

	// out-of-range value -> field error map
	rec := do(srv, http.MethodPost, "/v1/grades", adminToken, grade.NewGrade{StudentID: 1, CourseID: 1, Value: 21})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fldErrs map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
	assert.Contains(t, fldErrs, "value")

	rec = do(srv, http.MethodPost, "/v1/grades", adminToken, grade.NewGrade{StudentID: 1, CourseID: 1, Value: 16})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// enriched join resolves names from the current snapshots
	rec = do(srv, http.MethodGet, "/v1/grades/enriched", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var enriched []grade.EnrichedGrade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enriched))
	require.NotEmpty(t, enriched)
	assert.NotEmpty(t, enriched[0].StudentName)
	assert.NotEmpty(t, enriched[0].CourseTitle)

	// averages
	rec = do(srv, http.MethodGet, "/v1/grades/averages/students/999", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var avg struct {
		Average *float64 `json:"average"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avg))
	assert.Nil(t, avg.Average) // no grades -> null, not zero
}
