package search

import (
	"sort"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/geo"
)

// AttachDistances sets Distance on every row whose company has coordinates
// and clears it on the others.
func AttachDistances(rows []job.JobWithCompany, lat, lng float64) {
	for i := range rows {
		c := rows[i].Company
		if !c.HasCoordinates() {
			rows[i].Distance = nil
			continue
		}
		d := geo.Distance(lat, lng, *c.Latitude, *c.Longitude)
		rows[i].Distance = &d
	}
}

// WithinDistance keeps rows no farther than max. Rows without a distance
// are kept: an unknown location is not evidence of being too far.
func WithinDistance(rows []job.JobWithCompany, max float64) []job.JobWithCompany {
	out := rows[:0]
	for _, r := range rows {
		if r.Distance == nil || *r.Distance <= max {
			out = append(out, r)
		}
	}
	return out
}

// SortByDistance orders rows by distance; rows without a distance go last in
// both directions. The sort is stable so equal distances keep store order.
func SortByDistance(rows []job.JobWithCompany, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Distance, rows[j].Distance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case desc:
			return *a > *b
		default:
			return *a < *b
		}
	})
}

// Page slices rows for a 1-based page.
func Page[T any](rows []T, page, limit int) []T {
	start := (page - 1) * limit
	if start < 0 || start >= len(rows) {
		return []T{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
