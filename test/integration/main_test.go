//go:build integration

package integration

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/trebuchet-org/supersim-harness/pkg/testenv"
)

// projectRoot is the module root, which holds supersim.toml and out/
func projectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

func TestMain(m *testing.M) {
	testenv.Main(m, testenv.WithProjectRoot(projectRoot()))
}
