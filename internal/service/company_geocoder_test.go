package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/infrastructure/geocoding"
	"disability-jobs/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

type resolverFunc func(ctx context.Context, address string) *geocoding.Result

func (f resolverFunc) Resolve(ctx context.Context, address string) *geocoding.Result {
	return f(ctx, address)
}

func strPtr(s string) *string { return &s }

func TestCompanyGeocoder_Success(t *testing.T) {
	store := repotest.NewStore()
	id := store.AddCompany(job.Company{Name: "A", Address: strPtr("서울특별시 중구 세종대로 110")})
	c, _ := store.Company(id)

	g := NewCompanyGeocoder(store.Companies(), resolverFunc(func(context.Context, string) *geocoding.Result {
		return &geocoding.Result{Latitude: 37.56, Longitude: 126.97, Provider: "kakao"}
	}), arbor.NewLogger())

	status, err := g.Geocode(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, job.GeocodeSuccess, status)

	got, _ := store.Company(id)
	assert.Equal(t, job.GeocodeSuccess, got.GeocodeStatus)
	require.True(t, got.HasCoordinates())
	assert.Equal(t, 37.56, *got.Latitude)
}

func TestCompanyGeocoder_NotFound(t *testing.T) {
	store := repotest.NewStore()
	id := store.AddCompany(job.Company{Name: "B", Address: strPtr("???")})
	c, _ := store.Company(id)

	g := NewCompanyGeocoder(store.Companies(), resolverFunc(func(context.Context, string) *geocoding.Result {
		return nil
	}), nil)

	status, err := g.Geocode(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, job.GeocodeNotFound, status)

	got, _ := store.Company(id)
	assert.Equal(t, job.GeocodeNotFound, got.GeocodeStatus)
	assert.False(t, got.HasCoordinates())
}

func TestCompanyGeocoder_StoreFailureMarksFailed(t *testing.T) {
	store := repotest.NewStore()
	id := store.AddCompany(job.Company{Name: "C", Address: strPtr("부산")})
	c, _ := store.Company(id)
	store.FailGeocodeUpdate = errors.New("connection reset")

	g := NewCompanyGeocoder(store.Companies(), resolverFunc(func(context.Context, string) *geocoding.Result {
		return &geocoding.Result{Latitude: 35.1, Longitude: 129.0}
	}), nil)

	status, err := g.Geocode(context.Background(), c)
	require.Error(t, err)
	assert.Equal(t, job.GeocodeFailed, status)

	got, _ := store.Company(id)
	assert.Equal(t, job.GeocodeFailed, got.GeocodeStatus)
}

func TestCompanyGeocoder_GeocodeAll(t *testing.T) {
	store := repotest.NewStore()
	store.AddCompany(job.Company{Name: "a", Address: strPtr("서울")})
	store.AddCompany(job.Company{Name: "b", Address: strPtr("nowhere")})
	store.AddCompany(job.Company{Name: "c"})
	list := store.AllCompanies()

	var sleeps int
	g := NewCompanyGeocoder(store.Companies(), resolverFunc(func(_ context.Context, addr string) *geocoding.Result {
		if addr == "서울" {
			return &geocoding.Result{Latitude: 37.5, Longitude: 127}
		}
		return nil
	}), nil).WithSleeper(func(context.Context, time.Duration) error {
		sleeps++
		return nil
	})

	res, err := g.GeocodeAll(context.Background(), list, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Processed: 2, Updated: 1, NotFound: 1}, res)
	assert.LessOrEqual(t, sleeps, 2)
}

func TestCompanyGeocoder_GeocodeAllStopsOnCancel(t *testing.T) {
	store := repotest.NewStore()
	store.AddCompany(job.Company{Name: "a", Address: strPtr("서울")})
	store.AddCompany(job.Company{Name: "b", Address: strPtr("부산")})

	g := NewCompanyGeocoder(store.Companies(), resolverFunc(func(context.Context, string) *geocoding.Result {
		return nil
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := g.GeocodeAll(ctx, store.AllCompanies(), time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Processed)
}
