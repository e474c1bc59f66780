package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/infrastructure/cache"
	"disability-jobs/internal/infrastructure/geocoding"
	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/repository/repotest"
	"disability-jobs/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

var testLogger = arbor.NewLogger()

func ptr[T any](v T) *T { return &v }

type countingLoader struct {
	calls int
	err   error
}

func (l *countingLoader) Facets(context.Context) (job.FilterFacets, error) {
	l.calls++
	if l.err != nil {
		return job.FilterFacets{}, l.err
	}
	return job.FilterFacets{Categories: []string{"사무"}}, nil
}

// seoulStore holds jobs at increasing distance from Seoul City Hall plus one
// company without coordinates.
func seoulStore(t *testing.T) (*repotest.Store, map[string]uuid.UUID) {
	t.Helper()
	store := repotest.NewStore()
	ids := map[string]uuid.UUID{}
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	add := func(title string, lat, lng *float64, city string, offset int) {
		cid := store.AddCompany(job.Company{Name: title + " 주식회사", City: ptr(city), Latitude: lat, Longitude: lng})
		ids[title] = store.AddJob(job.Job{
			ExternalID:     ptr(title),
			CompanyID:      cid,
			Title:          title,
			EmploymentType: job.EmploymentFullTime,
			CreatedAt:      base.Add(time.Duration(offset) * time.Hour),
			UpdatedAt:      base.Add(time.Duration(offset) * time.Hour),
		})
	}
	add("near", ptr(37.5665), ptr(126.978), "서울특별시", 1)
	add("mid", ptr(37.4563), ptr(126.7052), "인천광역시", 2)
	add("far", ptr(35.1796), ptr(129.0756), "부산광역시", 3)
	add("unknown", nil, nil, "서울특별시", 4)
	return store, ids
}

func titles(rows []job.JobWithCompany) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func newJobList(store *repotest.Store) *JobList {
	return NewJobListUsecase(store.Jobs(), NewFacetCache(store.Jobs(), nil, 0, testLogger), testLogger)
}

func TestJobList_Defaults(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{})
	require.NoError(t, err)

	assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 4, TotalPages: 1}, res.Pagination)
	assert.Equal(t, []string{"unknown", "far", "mid", "near"}, titles(res.Jobs))
	for _, r := range res.Jobs {
		assert.Nil(t, r.Distance)
	}
}

func TestJobList_LimitCapped(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, res.Pagination.Limit)
}

func TestJobList_StoredSortPaginates(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		Page: 2, Limit: 3, SortField: "createdAt", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown"}, titles(res.Jobs))
	assert.Equal(t, Pagination{Page: 2, Limit: 3, Total: 4, TotalPages: 2}, res.Pagination)
}

func TestJobList_DistanceSortAscending(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		SortField: SortDistance, SortOrder: "asc", UserLat: ptr(37.5665), UserLng: ptr(126.978),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"near", "mid", "far", "unknown"}, titles(res.Jobs))
	require.NotNil(t, res.Jobs[0].Distance)
	assert.Equal(t, 0.0, *res.Jobs[0].Distance)
	assert.Nil(t, res.Jobs[3].Distance)
}

func TestJobList_DistanceSortDescendingKeepsUnknownLast(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		SortField: SortDistance, SortOrder: "desc", UserLat: ptr(37.5665), UserLng: ptr(126.978),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"far", "mid", "near", "unknown"}, titles(res.Jobs))
}

func TestJobList_DistanceSortPagesAfterRanking(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		Page: 2, Limit: 2, SortField: SortDistance, SortOrder: "asc",
		UserLat: ptr(37.5665), UserLng: ptr(126.978),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"far", "unknown"}, titles(res.Jobs))
	assert.Equal(t, 4, res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.TotalPages)
}

func TestJobList_MaxDistanceKeepsUnknown(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		SortField: SortDistance, SortOrder: "asc",
		UserLat: ptr(37.5665), UserLng: ptr(126.978), MaxDistance: ptr(50.0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "mid", "unknown"}, titles(res.Jobs))
	assert.Equal(t, 3, res.Pagination.Total)
}

func TestJobList_DistanceWithoutFullOriginFallsBack(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		SortField: SortDistance, UserLat: ptr(37.5665),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown", "far", "mid", "near"}, titles(res.Jobs))
	for _, r := range res.Jobs {
		assert.Nil(t, r.Distance)
	}
}

func TestJobList_StoredSortAttachesDisplayDistance(t *testing.T) {
	store, _ := seoulStore(t)
	res, err := newJobList(store).ListJobs(context.Background(), JobListParams{
		UserLat: ptr(37.5665), UserLng: ptr(126.978), MaxDistance: ptr(1.0),
	})
	require.NoError(t, err)
	// maxDistance only applies to the distance path
	assert.Len(t, res.Jobs, 4)
	assert.Equal(t, "unknown", res.Jobs[0].Title)
	assert.Nil(t, res.Jobs[0].Distance)
	require.NotNil(t, res.Jobs[1].Distance)
	assert.Greater(t, *res.Jobs[1].Distance, 300.0)
}

func TestJobList_Filters(t *testing.T) {
	store, _ := seoulStore(t)
	uc := newJobList(store)

	res, err := uc.ListJobs(context.Background(), JobListParams{City: "서울특별시"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"near", "unknown"}, titles(res.Jobs))

	res, err = uc.ListJobs(context.Background(), JobListParams{Query: "  FAR  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"far"}, titles(res.Jobs))
}

func TestJobList_InvalidInput(t *testing.T) {
	store, _ := seoulStore(t)
	uc := newJobList(store)
	for _, p := range []JobListParams{
		{SortField: "salary"},
		{SortOrder: "up"},
		{EmploymentType: "FREELANCE"},
	} {
		_, err := uc.ListJobs(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestJobList_StoreErrorPropagates(t *testing.T) {
	store, _ := seoulStore(t)
	store.FailList = errors.New("db down")
	_, err := newJobList(store).ListJobs(context.Background(), JobListParams{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestJobList_GetJob(t *testing.T) {
	store, ids := seoulStore(t)
	uc := newJobList(store)

	row, err := uc.GetJob(context.Background(), ids["mid"])
	require.NoError(t, err)
	assert.Equal(t, "mid 주식회사", row.Company.Name)

	_, err = uc.GetJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobList_Markers(t *testing.T) {
	store, _ := seoulStore(t)
	markers, err := newJobList(store).Markers(context.Background(), JobListParams{})
	require.NoError(t, err)
	assert.Len(t, markers, 3)
}

type mapCache struct {
	data    map[string][]byte
	deletes int
}

func (m *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.deletes++
	delete(m.data, key)
	return nil
}

func TestFacetCache_CachesAndInvalidates(t *testing.T) {
	loader := &countingLoader{}
	fc := NewFacetCache(loader, nil, time.Minute, testLogger)

	for i := 0; i < 3; i++ {
		f, err := fc.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"사무"}, f.Categories)
	}
	assert.Equal(t, 1, loader.calls)

	fc.Invalidate(context.Background())
	_, err := fc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestFacetCache_LoadErrorNotCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("boom")}
	fc := NewFacetCache(loader, nil, time.Minute, testLogger)

	_, err := fc.Get(context.Background())
	require.Error(t, err)
	loader.err = nil
	_, err = fc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestFacetCache_SharedTier(t *testing.T) {
	shared := &mapCache{data: map[string][]byte{}}
	first := NewFacetCache(&countingLoader{}, shared, time.Minute, testLogger)
	_, err := first.Get(context.Background())
	require.NoError(t, err)
	assert.Contains(t, shared.data, cache.KeyFacets)

	other := &countingLoader{}
	second := NewFacetCache(other, shared, time.Minute, testLogger)
	f, err := second.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"사무"}, f.Categories)
	assert.Zero(t, other.calls)

	second.Invalidate(context.Background())
	assert.NotContains(t, shared.data, cache.KeyFacets)
	assert.Equal(t, 1, shared.deletes)
}

type fixedRunner struct{ res pipeline.Result }

func (r fixedRunner) Run(context.Context) pipeline.Result { return r.res }

func TestSync_StatusWithoutRuns(t *testing.T) {
	store := repotest.NewStore()
	uc := NewSyncUsecase(fixedRunner{}, store.SyncLogs(), store.Jobs(), store.Companies(), testLogger)

	st, err := uc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.LastSync)
	assert.Equal(t, SyncTotals{}, st.Totals)
}

func TestSync_StatusAggregates(t *testing.T) {
	store, _ := seoulStore(t)
	logs := store.SyncLogs()
	ctx := context.Background()

	older := &job.SyncLog{Source: "data.go.kr", Status: job.SyncRunning, StartedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, logs.Create(ctx, older))
	require.NoError(t, logs.Finish(ctx, older.ID, job.SyncCompleted, job.SyncStats{Total: 5, Created: 5}, nil, time.Now()))
	newer := &job.SyncLog{Source: "data.go.kr", Status: job.SyncRunning, StartedAt: time.Now()}
	require.NoError(t, logs.Create(ctx, newer))
	require.NoError(t, logs.Finish(ctx, newer.ID, job.SyncCompleted, job.SyncStats{Total: 5, Updated: 4, Failed: 1}, nil, time.Now()))

	uc := NewSyncUsecase(fixedRunner{}, logs, store.Jobs(), store.Companies(), testLogger)
	st, err := uc.GetStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.LastSync)
	assert.Equal(t, newer.ID, st.LastSync.ID)
	assert.Equal(t, SyncTotals{Jobs: 4, Companies: 4, TotalCreated: 5, TotalUpdated: 4}, st.Totals)
}

func TestSync_RunSyncReturnsRunnerResult(t *testing.T) {
	want := pipeline.Result{Success: false, Error: pipeline.ErrSyncInProgress.Error()}
	store := repotest.NewStore()
	uc := NewSyncUsecase(fixedRunner{res: want}, store.SyncLogs(), store.Jobs(), store.Companies(), testLogger)
	assert.Equal(t, want, uc.RunSync(context.Background()))
}

func TestGeocode_Stats(t *testing.T) {
	store, _ := seoulStore(t)
	uc := NewGeocodeUsecase(store.Companies(), nil, 0, 0, testLogger)

	st, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GeocodeStats{Total: 4, WithCoordinates: 3, Pending: 1, PercentComplete: 75}, st)

	empty := NewGeocodeUsecase(repotest.NewStore().Companies(), nil, 0, 0, testLogger)
	st, err = empty.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GeocodeStats{}, st)
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestGeocode_BatchWithReset(t *testing.T) {
	store := repotest.NewStore()
	store.AddCompany(job.Company{Name: "a", Address: ptr("서울특별시 종로구"), Latitude: ptr(1.0), Longitude: ptr(1.0), GeocodeStatus: job.GeocodeSuccess})
	store.AddCompany(job.Company{Name: "b", Address: ptr("주소 미상")})
	store.AddCompany(job.Company{Name: "c"})

	resolver := geocoding.NewResolver(nil, nil, &geocoding.CityFallback{Jitter: func() float64 { return 0 }}, geocoding.WithLogger(testLogger))
	geocoder := service.NewCompanyGeocoder(store.Companies(), resolver, testLogger).WithSleeper(noSleep)
	uc := NewGeocodeUsecase(store.Companies(), geocoder, 50, 0, testLogger)

	res, err := uc.Batch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, GeocodeBatchResult{Processed: 1, Failed: 1}, res)

	res, err = uc.Batch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, GeocodeBatchResult{Processed: 2, Updated: 1, Failed: 1}, res)

	for _, c := range store.AllCompanies() {
		if c.Name == "a" {
			require.True(t, c.HasCoordinates())
			assert.InDelta(t, 37.5665, *c.Latitude, 1e-9)
		}
	}
}
