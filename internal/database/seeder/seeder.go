// Package seeder loads demo data for local development.
package seeder

import "context"

type Seeder interface {
	Name() string
	Run(ctx context.Context) error
}
