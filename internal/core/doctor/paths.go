package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PathsCheck verifies the config file, data directory and points file.
type PathsCheck struct {
	configPath string
	dataDir    string
	pointsFile string
}

func NewPathsCheck(configPath, dataDir, pointsFile string) *PathsCheck {
	return &PathsCheck{configPath: configPath, dataDir: dataDir, pointsFile: pointsFile}
}

func (c *PathsCheck) Name() string {
	return "Files"
}

func (c *PathsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch info, err := os.Stat(c.configPath); {
	case c.configPath == "":
		result.add("config", StatusPass, "not set, using defaults")
	case os.IsNotExist(err):
		result.add("config", StatusPass, c.configPath+" not found, using defaults")
	case err != nil:
		result.add("config", StatusFail, fmt.Sprintf("inaccessible: %v", err))
	case info.IsDir():
		result.add("config", StatusFail, c.configPath+" is a directory")
	default:
		result.add("config", StatusPass, c.configPath)
	}

	switch info, err := os.Stat(c.dataDir); {
	case os.IsNotExist(err):
		result.add("data dir", StatusWarn, c.dataDir+" does not exist yet")
	case err != nil:
		result.add("data dir", StatusFail, fmt.Sprintf("inaccessible: %v", err))
	case !info.IsDir():
		result.add("data dir", StatusFail, c.dataDir+" is not a directory")
	default:
		if err := checkWritable(c.dataDir); err != nil {
			result.add("data dir", StatusFail, fmt.Sprintf("not writable: %v", err))
		} else {
			result.add("data dir", StatusPass, c.dataDir)
		}
	}

	if c.pointsFile == "" {
		result.add("points file", StatusPass, "not set")
		return result
	}
	if f, err := os.Open(c.pointsFile); err != nil {
		result.add("points file", StatusFail, fmt.Sprintf("cannot open: %v", err))
	} else {
		_ = f.Close()
		result.add("points file", StatusPass, c.pointsFile)
	}

	return result
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
