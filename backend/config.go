package backend

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/strcase"
	"github.com/kie/cyclescroll/backend/util"
	"github.com/kie/cyclescroll/res"
	"github.com/kie/cyclescroll/sharedutil"
	"github.com/pelletier/go-toml/v2"
)

type ScrollDirection string

const (
	ScrollHorizontal ScrollDirection = "Horizontal"
	ScrollVertical   ScrollDirection = "Vertical"
)

// ParseScrollDirection matches s case-insensitively against the known
// directions, falling back to horizontal.
func ParseScrollDirection(s string) ScrollDirection {
	if strcase.EqualFold(strings.TrimSpace(s), string(ScrollVertical)) {
		return ScrollVertical
	}
	return ScrollHorizontal
}

type AppConfig struct {
	WindowWidth           int
	WindowHeight          int
	LastLaunchedVersion   string
	MaxImageCacheSizeMB   int
	RequestTimeoutSeconds int
}

type CarouselConfig struct {
	Images          []string
	Direction       string
	IntervalSeconds float64
	ScrollEnabled   bool
	Width           int
	Height          int
}

// Interval returns the auto-advance interval. Negative values disable it.
func (c CarouselConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}

type ThemeConfig struct {
	Appearance string

	// optional "#RRGGBB" or "#RRGGBBAA" overrides for the page indicator dots
	PageIndicatorColor        string
	PageIndicatorCurrentColor string
}

type Config struct {
	Application AppConfig
	Carousel    CarouselConfig
	Theme       ThemeConfig
}

func DefaultConfig(appVersionTag string) *Config {
	return &Config{
		Application: AppConfig{
			WindowWidth:           480,
			WindowHeight:          320,
			LastLaunchedVersion:   appVersionTag,
			MaxImageCacheSizeMB:   50,
			RequestTimeoutSeconds: 15,
		},
		Carousel: CarouselConfig{
			Images:          append([]string(nil), res.DemoImageURLs...),
			Direction:       string(ScrollHorizontal),
			IntervalSeconds: 2,
			ScrollEnabled:   true,
			Width:           400,
			Height:          200,
		},
		Theme: ThemeConfig{
			Appearance: "Dark",
		},
	}
}

func ReadConfigFile(filepath, appVersionTag string) (*Config, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig(appVersionTag)
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, err
	}

	// entries are kept even if empty; a blank entry renders as a blank slide
	c.Carousel.Images = sharedutil.MapSlice(c.Carousel.Images, strings.TrimSpace)
	c.Carousel.Direction = string(ParseScrollDirection(c.Carousel.Direction))

	return c, nil
}

var writeLock sync.Mutex

func (c *Config) WriteConfigFile(filepath string) error {
	if !writeLock.TryLock() {
		return nil // another write in progress
	}
	defer writeLock.Unlock()

	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(filepath, b, 0644)
}
