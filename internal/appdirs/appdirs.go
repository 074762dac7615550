package appdirs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	PortableEnv = "COSTCHECK_PORTABLE"
	HomeEnv     = "COSTCHECK_HOME"

	appName        = "costcheck"
	configFileName = "config.toml"
	dbFileName     = "history.db"
)

type Paths struct {
	Portable   bool
	ConfigDir  string
	ConfigFile string
	LogDir     string
	DataDir    string
}

type resolveDeps struct {
	getenv        func(string) string
	executable    func() (string, error)
	userConfigDir func() (string, error)
	userCacheDir  func() (string, error)
}

func Resolve() (Paths, error) {
	return resolve(resolveDeps{
		getenv:        os.Getenv,
		executable:    os.Executable,
		userConfigDir: os.UserConfigDir,
		userCacheDir:  os.UserCacheDir,
	})
}

// DBPathFor returns the run history database location.
func DBPathFor(paths Paths) string {
	dataDir := strings.TrimSpace(paths.DataDir)
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, dbFileName)
}

func resolve(rawDeps resolveDeps) (Paths, error) {
	deps := withDefaults(rawDeps)
	if isPortableEnabled(deps.getenv(PortableEnv)) {
		return resolvePortable(deps)
	}
	if home := strings.TrimSpace(deps.getenv(HomeEnv)); home != "" {
		return layoutUnder(home, false), nil
	}
	return resolveUser(deps)
}

func withDefaults(deps resolveDeps) resolveDeps {
	if deps.getenv == nil {
		deps.getenv = os.Getenv
	}
	if deps.executable == nil {
		deps.executable = os.Executable
	}
	if deps.userConfigDir == nil {
		deps.userConfigDir = os.UserConfigDir
	}
	if deps.userCacheDir == nil {
		deps.userCacheDir = os.UserCacheDir
	}
	return deps
}

func resolvePortable(deps resolveDeps) (Paths, error) {
	executablePath, err := deps.executable()
	if err != nil {
		return Paths{}, err
	}
	return layoutUnder(filepath.Join(filepath.Dir(executablePath), "data"), true), nil
}

func layoutUnder(root string, portable bool) Paths {
	configDir := filepath.Join(root, "config")
	return Paths{
		Portable:   portable,
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(root, "logs"),
		DataDir:    filepath.Join(root, "data"),
	}
}

func resolveUser(deps resolveDeps) (Paths, error) {
	configRoot, err := deps.userConfigDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(configRoot) == "" {
		return Paths{}, errors.New("user config dir is empty")
	}

	cacheRoot, err := deps.userCacheDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(cacheRoot) == "" {
		return Paths{}, errors.New("user cache dir is empty")
	}

	configDir := filepath.Join(configRoot, appName)
	cacheBaseDir := filepath.Join(cacheRoot, appName)
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(cacheBaseDir, "logs"),
		DataDir:    filepath.Join(cacheBaseDir, "data"),
	}, nil
}

func isPortableEnabled(value string) bool {
	normalized := strings.TrimSpace(strings.ToLower(value))
	return normalized == "1" || normalized == "true"
}
