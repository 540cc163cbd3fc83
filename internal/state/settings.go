package state

import (
	"time"

	"github.com/kk-code-lab/pathnav/internal/dircache"
	"github.com/kk-code-lab/pathnav/internal/ignore"
	"github.com/kk-code-lab/pathnav/internal/search"
)

// Settings is the immutable configuration snapshot the navigator, its cache
// and its filters run with. It only changes through ApplySettings.
type Settings struct {
	SearchDepth    int
	MatchThreshold float64
	ScanDebounce   time.Duration
	IgnorePatterns []string
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		SearchDepth:    1,
		MatchThreshold: search.DefaultThreshold,
		ScanDebounce:   dircache.DefaultDebounce,
		IgnorePatterns: append([]string(nil), ignore.DefaultPatterns...),
	}
}

func (s Settings) normalized() Settings {
	if s.SearchDepth < 1 {
		s.SearchDepth = 1
	}
	if s.MatchThreshold < 0 || s.MatchThreshold > 1 {
		s.MatchThreshold = search.DefaultThreshold
	}
	if s.ScanDebounce < 0 {
		s.ScanDebounce = 0
	}
	if s.IgnorePatterns == nil {
		s.IgnorePatterns = append([]string(nil), ignore.DefaultPatterns...)
	}
	return s
}

func (s Settings) cacheSettings() dircache.Settings {
	return dircache.Settings{
		Debounce: s.ScanDebounce,
		Ignore:   ignore.New(s.IgnorePatterns),
	}
}
