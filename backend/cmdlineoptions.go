package backend

import (
	"flag"
)

var (
	FlagInterval = flag.Float64("interval", -1, "auto-advance interval in seconds (0 disables auto-advance)")
	FlagVertical = flag.Bool("vertical", false, "scroll the carousel vertically")
	FlagNoScroll = flag.Bool("no-scroll", false, "disable manual dragging of the carousel")
	FlagVersion  = flag.Bool("version", false, "print app version and exit")
	FlagHelp     = flag.Bool("help", false, "print command line options and exit")
)

// CarouselOverrides are command line settings that take precedence
// over the carousel section of the config file for a single run.
type CarouselOverrides struct {
	IntervalSeconds float64 // negative means unset
	Vertical        bool
	NoScroll        bool
}

func CommandLineOverrides() CarouselOverrides {
	return CarouselOverrides{
		IntervalSeconds: *FlagInterval,
		Vertical:        *FlagVertical,
		NoScroll:        *FlagNoScroll,
	}
}

func (o CarouselOverrides) Apply(c *CarouselConfig) {
	if o.IntervalSeconds >= 0 {
		c.IntervalSeconds = o.IntervalSeconds
	}
	if o.Vertical {
		c.Direction = string(ScrollVertical)
	}
	if o.NoScroll {
		c.ScrollEnabled = false
	}
}

func HaveCommandLineOptions() bool {
	visitedAny := false
	flag.Visit(func(*flag.Flag) {
		visitedAny = true
	})
	return visitedAny
}
