package migration

import (
	"embed"

	"github.com/ternarybob/arbor"
)

//go:embed sql/*.sql
var files embed.FS

// Embedded returns a runner over the migrations compiled into the binary.
func Embedded(logger arbor.ILogger) Runner {
	return Runner{FS: files, Dir: "sql", Logger: logger}
}
