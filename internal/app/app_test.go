package app

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"disability-jobs/internal/config"
	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/infrastructure/cache"
	"disability-jobs/internal/pkg/response"
	"disability-jobs/internal/repository/repotest"
	"disability-jobs/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

var testLogger = arbor.NewLogger()

// newMemoryContainer wires every component over the in-memory store. The
// data.go.kr key is left empty so a sync fails fast without network access.
func newMemoryContainer(store *repotest.Store) *Container {
	cfg := config.Defaults()
	cfg.App.AppName = "disability-jobs-test"

	c := &Container{
		Config:    cfg,
		Logger:    testLogger,
		Redis:     cache.NewRedis(cfg.Redis, testLogger),
		Hub:       ws.NewHub(testLogger),
		Companies: store.Companies(),
		Jobs:      store.Jobs(),
		SyncLogs:  store.SyncLogs(),
	}
	c.wire()
	return c
}

func request(t *testing.T, app *fiber.App, method, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	data, _ := env.Data.(map[string]any)
	return resp.StatusCode, data
}

func TestApp_JobListThroughWiredStack(t *testing.T) {
	store := repotest.NewStore()
	lat, lng := 37.5665, 126.9780
	city := "서울특별시"
	cid := store.AddCompany(job.Company{
		Name:          "가나상사",
		City:          &city,
		Latitude:      &lat,
		Longitude:     &lng,
		GeocodeStatus: job.GeocodeSuccess,
	})
	store.AddJob(job.Job{CompanyID: cid, Title: "사무보조", EmploymentType: job.EmploymentFullTime})
	store.AddJob(job.Job{CompanyID: cid, Title: "포장원", EmploymentType: job.EmploymentPartTime})

	app := New(newMemoryContainer(store))

	code, data := request(t, app.Fiber, fiber.MethodGet, "/api/v1/jobs?limit=1&userLat=37.5&userLng=127.0&sortField=distance")
	require.Equal(t, fiber.StatusOK, code)
	jobs, ok := data["jobs"].([]any)
	require.True(t, ok)
	assert.Len(t, jobs, 1)
	pagination := data["pagination"].(map[string]any)
	assert.EqualValues(t, 2, pagination["total"])
	assert.EqualValues(t, 2, pagination["total_pages"])

	code, _ = request(t, app.Fiber, fiber.MethodGet, "/api/v1/jobs?sortOrder=sideways")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestApp_SyncWithoutServiceKeyIsRecordedAsFailed(t *testing.T) {
	store := repotest.NewStore()
	app := New(newMemoryContainer(store))

	code, data := request(t, app.Fiber, fiber.MethodPost, "/api/v1/sync")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, data["success"])

	logs := store.AllSyncLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, job.SyncFailed, logs[0].Status)

	code, data = request(t, app.Fiber, fiber.MethodGet, "/api/v1/sync")
	require.Equal(t, fiber.StatusOK, code)
	last := data["last_sync"].(map[string]any)
	assert.Equal(t, string(job.SyncFailed), last["status"])
}

func TestApp_HealthWithoutDatabase(t *testing.T) {
	app := New(newMemoryContainer(repotest.NewStore()))

	code, data := request(t, app.Fiber, fiber.MethodGet, "/health")
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "disabled", data["database"])
	assert.Equal(t, "disabled", data["redis"])
}
