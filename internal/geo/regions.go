package geo

// Region is a province-level administrative area. Names are ordered from the
// legal name to the colloquial short form; shorter forms are prefixes of the
// longer ones, so they must be tried last.
type Region struct {
	Names []string
	Lat   float64
	Lng   float64
}

var Regions = []Region{
	{Names: []string{"서울특별시", "서울시", "서울"}, Lat: 37.5665, Lng: 126.978},
	{Names: []string{"부산광역시", "부산시", "부산"}, Lat: 35.1796, Lng: 129.0756},
	{Names: []string{"대구광역시", "대구시", "대구"}, Lat: 35.8714, Lng: 128.6014},
	{Names: []string{"인천광역시", "인천시", "인천"}, Lat: 37.4563, Lng: 126.7052},
	{Names: []string{"광주광역시", "광주시", "광주"}, Lat: 35.1595, Lng: 126.8526},
	{Names: []string{"대전광역시", "대전시", "대전"}, Lat: 36.3504, Lng: 127.3845},
	{Names: []string{"울산광역시", "울산시", "울산"}, Lat: 35.5384, Lng: 129.3114},
	{Names: []string{"세종특별자치시", "세종시", "세종"}, Lat: 36.48, Lng: 127.289},
	{Names: []string{"경기도", "경기"}, Lat: 37.4138, Lng: 127.5183},
	{Names: []string{"강원특별자치도", "강원도", "강원"}, Lat: 37.8228, Lng: 128.1555},
	{Names: []string{"충청북도", "충북"}, Lat: 36.6357, Lng: 127.4917},
	{Names: []string{"충청남도", "충남"}, Lat: 36.6588, Lng: 126.6728},
	{Names: []string{"전라북도", "전북"}, Lat: 35.8203, Lng: 127.1089},
	{Names: []string{"전라남도", "전남"}, Lat: 34.8161, Lng: 126.4629},
	{Names: []string{"경상북도", "경북"}, Lat: 36.576, Lng: 128.5056},
	{Names: []string{"경상남도", "경남"}, Lat: 35.4606, Lng: 128.2132},
	{Names: []string{"제주특별자치도", "제주도", "제주"}, Lat: 33.4996, Lng: 126.5312},
}
