package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	res   *Result
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Geocode(context.Context, string) (*Result, error) {
	s.calls++
	return s.res, s.err
}

func noSleep(context.Context, time.Duration) error { return nil }

func fixedFallback() *CityFallback {
	return &CityFallback{Jitter: func() float64 { return 0 }}
}

func TestResolver_BlankAddress(t *testing.T) {
	p := &stubProvider{name: "p", res: &Result{Latitude: 1, Longitude: 1}}
	r := NewResolver(p, p, p, WithSleeper(noSleep))

	assert.Nil(t, r.Resolve(context.Background(), "   "))
	assert.Equal(t, 0, p.calls)
}

func TestResolver_PrimaryWins(t *testing.T) {
	primary := &stubProvider{name: "a", res: &Result{Latitude: 37.1, Longitude: 127.1, Provider: "a"}}
	secondary := &stubProvider{name: "b"}
	r := NewResolver(primary, secondary, fixedFallback(), WithSleeper(noSleep))

	res := r.Resolve(context.Background(), "서울특별시 중구 세종대로 110")
	require.NotNil(t, res)
	assert.Equal(t, "a", res.Provider)
	assert.Equal(t, 0, secondary.calls)
}

func TestResolver_PrimaryErrorFallsThrough(t *testing.T) {
	primary := &stubProvider{name: "a", err: errors.New("timeout")}
	secondary := &stubProvider{name: "b", res: &Result{Latitude: 35.1, Longitude: 129.0, Provider: "b"}}

	var slept time.Duration
	sleeper := func(_ context.Context, d time.Duration) error { slept = d; return nil }
	r := NewResolver(primary, secondary, fixedFallback(), WithSleeper(sleeper), WithSecondaryDelay(250*time.Millisecond))

	res := r.Resolve(context.Background(), "부산광역시 연제구 중앙대로 1001")
	require.NotNil(t, res)
	assert.Equal(t, "b", res.Provider)
	assert.Equal(t, 250*time.Millisecond, slept)
}

func TestResolver_UnconfiguredPrimaryAndNoMatchUsesCityTable(t *testing.T) {
	secondary := &stubProvider{name: "b"}
	r := NewResolver(NewKakao("", "", nil), secondary, fixedFallback(), WithSleeper(noSleep))

	res := r.Resolve(context.Background(), "대전광역시 서구 둔산로 100")
	require.NotNil(t, res)
	assert.Equal(t, "city", res.Provider)
	assert.InDelta(t, 36.3504, res.Latitude, 1e-9)
	assert.InDelta(t, 127.3845, res.Longitude, 1e-9)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolver_NothingMatches(t *testing.T) {
	secondary := &stubProvider{name: "b", err: errors.New("503")}
	r := NewResolver(nil, secondary, fixedFallback(), WithSleeper(noSleep))

	assert.Nil(t, r.Resolve(context.Background(), "nowhere at all"))
}

func TestResolver_SecondaryDelayCancelled(t *testing.T) {
	secondary := &stubProvider{name: "b", res: &Result{Latitude: 1, Longitude: 1}}
	r := NewResolver(nil, secondary, fixedFallback(), WithSecondaryDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, r.Resolve(ctx, "서울"))
	assert.Equal(t, 0, secondary.calls)
}

func TestCityFallback_JitterBounds(t *testing.T) {
	f := NewCityFallback()
	for i := 0; i < 200; i++ {
		res, err := f.Geocode(context.Background(), "제주특별자치도 제주시")
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.InDelta(t, 33.4996, res.Latitude, 0.01)
		assert.InDelta(t, 126.5312, res.Longitude, 0.01)
	}
}

func TestCityFallback_ProvinceBeatsSameNamedCity(t *testing.T) {
	f := fixedFallback()

	res, err := f.Geocode(context.Background(), "경기도 광주시 오포읍 문형리 1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "경기도", res.FormattedAddress)
	assert.InDelta(t, 37.4138, res.Latitude, 1e-9)
	assert.InDelta(t, 127.5183, res.Longitude, 1e-9)

	res, err = f.Geocode(context.Background(), "경기도 성남시 분당구 서울대로 10")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "경기도", res.FormattedAddress)
}

func TestKakao_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KakaoAK secret", r.Header.Get("Authorization"))
		assert.Equal(t, "서울 중구 세종대로 110", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"documents":[{"address_name":"서울 중구 태평로1가 31","x":"126.97843","y":"37.56668"}],"meta":{"total_count":1}}`))
	}))
	defer srv.Close()

	k := NewKakao("secret", srv.URL, srv.Client())
	require.True(t, k.Configured())

	res, err := k.Geocode(context.Background(), "서울 중구 세종대로 110")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 37.56668, res.Latitude, 1e-9)
	assert.InDelta(t, 126.97843, res.Longitude, 1e-9)
	assert.Equal(t, "서울 중구 태평로1가 31", res.FormattedAddress)
}

func TestKakao_NoDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"documents":[],"meta":{"total_count":0}}`))
	}))
	defer srv.Close()

	res, err := NewKakao("secret", srv.URL, srv.Client()).Geocode(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestKakao_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewKakao("bad", srv.URL, srv.Client()).Geocode(context.Background(), "x")
	assert.Error(t, err)
}

func TestNominatim_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "광주광역시 서구, South Korea", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("limit"))
		assert.Equal(t, "kr", q.Get("countrycodes"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"35.152","lon":"126.890","display_name":"서구, 광주"}]`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "test-agent", srv.Client(), 0)
	res, err := n.Geocode(context.Background(), "광주광역시 서구")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 35.152, res.Latitude, 1e-9)
	assert.Equal(t, "nominatim", res.Provider)
}

func TestNominatim_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res, err := NewNominatim(srv.URL, "", srv.Client(), 0).Geocode(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, res)
}
