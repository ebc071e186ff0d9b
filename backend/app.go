package backend

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/20after4/configdir"
	"github.com/fsnotify/fsnotify"
	"github.com/kie/cyclescroll/backend/util"
	"github.com/kie/cyclescroll/sharedutil"
)

const (
	configFile  = "config.toml"
	portableDir = "cyclescroll_portable"

	configReloadDebounce = 250 * time.Millisecond
)

type App struct {
	Config       *Config
	ImageManager *ImageManager

	appName       string
	appVersionTag string
	configDir     string
	cacheDir      string
	portableMode  bool

	isFirstLaunch bool // set by config file reader
	bgrndCtx      context.Context
	cancel        context.CancelFunc

	lastReadMu  sync.Mutex
	lastReadCfg Config

	handlersMu      sync.Mutex
	onConfigChanged []func(*Config)
}

// OnConfigChanged registers a callback that is invoked from a background
// goroutine with the freshly read config whenever the config file changes on disk.
func (a *App) OnConfigChanged(cb func(*Config)) {
	a.handlersMu.Lock()
	defer a.handlersMu.Unlock()
	a.onConfigChanged = append(a.onConfigChanged, cb)
}

func (a *App) VersionTag() string {
	return a.appVersionTag
}

func StartupApp(appName, appVersionTag string) (*App, error) {
	var confDir, cacheDir string
	portableMode := false
	if p := checkPortablePath(); p != "" {
		confDir = path.Join(p, "config")
		cacheDir = path.Join(p, "cache")
		portableMode = true
	} else {
		confDir = configdir.LocalConfig(appName)
		cacheDir = configdir.LocalCache(appName)
	}
	// ensure config and cache dirs exist
	if err := configdir.MakePath(confDir); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := configdir.MakePath(cacheDir); err != nil {
		log.Printf("failed to create cache dir, images will not be cached on disk: %v", err)
		cacheDir = ""
	}

	log.Printf("Starting %s...", appName)
	log.Printf("Using config dir: %s", confDir)
	log.Printf("Using cache dir: %s", cacheDir)

	a := &App{
		appName:       appName,
		appVersionTag: appVersionTag,
		configDir:     confDir,
		cacheDir:      cacheDir,
		portableMode:  portableMode,
	}
	a.bgrndCtx, a.cancel = context.WithCancel(context.Background())
	a.readConfig()

	a.Config.Application.RequestTimeoutSeconds = sharedutil.Clamp(a.Config.Application.RequestTimeoutSeconds, 1, 120)
	a.ImageManager = NewImageManager(a.bgrndCtx, cacheDir,
		time.Duration(a.Config.Application.RequestTimeoutSeconds)*time.Second)
	a.Config.Application.MaxImageCacheSizeMB = sharedutil.Clamp(a.Config.Application.MaxImageCacheSizeMB, 1, 500)
	a.ImageManager.SetMaxOnDiskCacheSizeBytes(int64(a.Config.Application.MaxImageCacheSizeMB) * 1_048_576)

	if err := a.startConfigWatcher(); err != nil {
		log.Printf("config hot reload disabled: %v", err)
	}
	return a, nil
}

func (a *App) IsFirstLaunch() bool {
	return a.isFirstLaunch
}

func (a *App) IsPortableMode() bool {
	return a.portableMode
}

func checkPortablePath() string {
	if p, err := os.Executable(); err == nil {
		pdirPath := path.Join(filepath.Dir(p), portableDir)
		if s, err := os.Stat(pdirPath); err == nil && s.IsDir() {
			return pdirPath
		}
	}
	return ""
}

func (a *App) readConfig() {
	cfgPath := a.configFilePath()
	var cfgExists bool
	if _, err := os.Stat(cfgPath); err == nil {
		cfgExists = true
	}
	a.isFirstLaunch = !cfgExists
	cfg, err := ReadConfigFile(cfgPath, a.appVersionTag)
	if err != nil {
		if cfgExists {
			log.Printf("Error reading app config file: %v", err)
			backupCfgName := fmt.Sprintf("%s.bak", configFile)
			log.Printf("Config file may be malformed: copying to %s", backupCfgName)
			_ = util.CopyFile(cfgPath, path.Join(a.configDir, backupCfgName))
		}
		cfg = DefaultConfig(a.appVersionTag)
	}
	a.Config = cfg
	a.setLastReadConfig(cfg)
}

// startConfigWatcher watches the config dir rather than the file itself
// so that editors which save by renaming a temp file are handled.
func (a *App) startConfigWatcher() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(a.configDir); err != nil {
		w.Close()
		return err
	}
	go func() {
		defer w.Close()
		var debounce *time.Timer
		for {
			select {
			case <-a.bgrndCtx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != configFile || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(configReloadDebounce, a.reloadConfig)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (a *App) reloadConfig() {
	if a.bgrndCtx.Err() != nil {
		return
	}
	cfg, err := ReadConfigFile(a.configFilePath(), a.appVersionTag)
	if err != nil {
		log.Printf("Ignoring config file change: %v", err)
		return
	}
	a.lastReadMu.Lock()
	unchanged := reflect.DeepEqual(&a.lastReadCfg, cfg)
	a.lastReadMu.Unlock()
	if unchanged {
		return
	}
	a.setLastReadConfig(cfg)
	log.Println("Config file changed, reloading")
	a.handlersMu.Lock()
	handlers := slices.Clone(a.onConfigChanged)
	a.handlersMu.Unlock()
	for _, cb := range handlers {
		cb(cfg)
	}
}

func (a *App) setLastReadConfig(cfg *Config) {
	a.lastReadMu.Lock()
	defer a.lastReadMu.Unlock()
	a.lastReadCfg = *cfg
	a.lastReadCfg.Carousel.Images = append([]string(nil), cfg.Carousel.Images...)
}

func (a *App) Shutdown() {
	a.cancel()
	a.Config.Application.LastLaunchedVersion = a.appVersionTag
	if err := a.Config.WriteConfigFile(a.configFilePath()); err != nil {
		log.Printf("failed to write config file: %v", err)
	}
}

func (a *App) SaveConfigFile() {
	if err := a.Config.WriteConfigFile(a.configFilePath()); err != nil {
		log.Printf("failed to write config file: %v", err)
		return
	}
	a.setLastReadConfig(a.Config)
}

func (a *App) configFilePath() string {
	return path.Join(a.configDir, configFile)
}
