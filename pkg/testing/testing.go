package testing

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
)

// pkg/common imports this package from its own tests, so the keys are spelled out.
const (
	envKeyGoEnv  = "GO_ENV"
	envKeyLogDir = "LOG_DIR"
)

// Importing this package from a _test.go file moves the working directory to
// the module root and points the rotated log file at a throwaway directory:
//
//	import (
//	  _ "liyu1981.xyz/poultry-house-service/pkg/testing"
//	)
func init() {
	_, filename, _, _ := runtime.Caller(0)
	root := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(root); err != nil {
		panic(err)
	}

	if os.Getenv(envKeyLogDir) == "" {
		if err := os.Setenv(envKeyLogDir, filepath.Join(os.TempDir(), "poultry-house-test-logs")); err != nil {
			panic(err)
		}
	}
	if os.Getenv(envKeyGoEnv) == "" {
		_ = os.Setenv(envKeyGoEnv, "test")
	}
}
