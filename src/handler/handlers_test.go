package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecotrack/backend/src/repository"
	"github.com/ecotrack/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(apiSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	challengeRepo := repository.NewMockChallengeRepository()
	userChallengeRepo := repository.NewMockUserChallengeRepository()

	router := gin.New()
	ctx := zerolog.Nop().WithContext(context.Background())
	RegisterRoutes(ctx, router, Services{
		Challenge:  service.NewChallengeService(challengeRepo),
		Enrollment: service.NewEnrollmentService(userChallengeRepo, challengeRepo),
		Reconcile:  service.NewReconcileService(challengeRepo, userChallengeRepo, time.Minute),
		APISecret:  apiSecret,
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRootLiveness(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EcoTrack server is running", rec.Body.String())
}

func TestChallengeLifecycle(t *testing.T) {
	router := newTestRouter("")

	// Create
	rec := doJSON(t, router, http.MethodPost, "/challenges", map[string]interface{}{
		"createdBy": "u1",
		"title":     "Bike to work",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	challengeID, _ := body["challengeId"].(string)
	require.NotEmpty(t, challengeID)
	assert.NotEmpty(t, body["message"])

	// Get by id, arbitrary fields flattened into the response
	rec = doJSON(t, router, http.MethodGet, "/challenges/"+challengeID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "u1", body["createdBy"])
	assert.Equal(t, float64(0), body["participants"])
	assert.Equal(t, "Bike to work", body["title"])

	// List
	rec = doJSON(t, router, http.MethodGet, "/challenges", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// Update
	rec = doJSON(t, router, http.MethodPut, "/challenges/"+challengeID, map[string]interface{}{
		"title": "Bike to work, week 2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/challenges/"+challengeID, nil)
	body = decodeBody(t, rec)
	assert.Equal(t, "Bike to work, week 2", body["title"])

	// Delete, then 404 on a second look
	rec = doJSON(t, router, http.MethodDelete, "/challenges/"+challengeID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/challenges/"+challengeID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateChallengeWithoutCreatedBy(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodPost, "/challenges", map[string]interface{}{
		"title": "anonymous",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["message"])

	rec = doJSON(t, router, http.MethodGet, "/challenges", nil)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list, "rejected create must not store anything")
}

func TestGetChallengeMalformedID(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodGet, "/challenges/not-a-hex-id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinAndLeaveFlow(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodPost, "/challenges", map[string]interface{}{"createdBy": "u1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	challengeID := decodeBody(t, rec)["challengeId"].(string)

	// Join
	rec = doJSON(t, router, http.MethodPost, "/user-challenges", map[string]interface{}{
		"userId":      "u2",
		"challengeId": challengeID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Not Started", data["status"])
	assert.Equal(t, float64(0), data["progress"])
	enrollmentID := data["_id"].(string)

	// Counter went up
	rec = doJSON(t, router, http.MethodGet, "/challenges/"+challengeID, nil)
	assert.Equal(t, float64(1), decodeBody(t, rec)["participants"])

	// Duplicate join is a 400
	rec = doJSON(t, router, http.MethodPost, "/user-challenges", map[string]interface{}{
		"userId":      "u2",
		"challengeId": challengeID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Merged listing pairs the enrollment with its challenge
	rec = doJSON(t, router, http.MethodGet, "/user-challenges/u2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Len(t, details, 1)
	challenge, ok := details[0]["challenge"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, challengeID, challenge["_id"])

	// Leave
	rec = doJSON(t, router, http.MethodDelete, "/user-challenges/"+enrollmentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/challenges/"+challengeID, nil)
	assert.Equal(t, float64(0), decodeBody(t, rec)["participants"])

	rec = doJSON(t, router, http.MethodDelete, "/user-challenges/"+enrollmentID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinValidation(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodPost, "/user-challenges", map[string]interface{}{
		"userId": "u2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergedListingWithDanglingReference(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodPost, "/challenges", map[string]interface{}{"createdBy": "u1"})
	challengeID := decodeBody(t, rec)["challengeId"].(string)

	rec = doJSON(t, router, http.MethodPost, "/user-challenges", map[string]interface{}{
		"userId":      "u2",
		"challengeId": challengeID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Deleting the challenge does not cascade
	rec = doJSON(t, router, http.MethodDelete, "/challenges/"+challengeID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/user-challenges/u2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Len(t, details, 1)
	assert.Nil(t, details[0]["challenge"])
}

func TestReconcileRouteRequiresSecret(t *testing.T) {
	router := newTestRouter("s3cret")

	rec := doJSON(t, router, http.MethodPost, "/admin/reconcile", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/reconcile", nil)
	req.Header.Set("X-API-Secret", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/reconcile", nil)
	req.Header.Set("X-API-Secret", "s3cret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["message"])
}

func TestReconcileRouteOpenWithoutSecret(t *testing.T) {
	router := newTestRouter("")

	rec := doJSON(t, router, http.MethodPost, "/admin/reconcile", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
