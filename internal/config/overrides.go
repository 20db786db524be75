package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"obot/internal/logger"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Overrides is the small set of knobs an operator may retune while the bot
// is live, without a restart. Zero values mean "keep the configured value".
type Overrides struct {
	RiskPercent        float64 `yaml:"risk_percent"`
	MaxSpreadPoints    float64 `yaml:"max_spread_points"`
	StartHour          *int    `yaml:"start_hour"`
	EndHour            *int    `yaml:"end_hour"`
	CloseOnScheduleEnd *bool   `yaml:"close_on_schedule_end"`
}

// OverridesSnapshot is the read-only view handed to subscribers.
type OverridesSnapshot struct {
	Version  int64
	LoadedAt time.Time
	Values   Overrides
}

type OverridesListener func(OverridesSnapshot)

// OverridesLoader watches a YAML file and pushes new snapshots to
// subscribers whenever it changes. A missing file is not an error: the
// loader starts empty and picks the file up once it appears.
type OverridesLoader struct {
	path    string
	watcher *fsnotify.Watcher

	mu        sync.RWMutex
	snapshot  OverridesSnapshot
	listeners []OverridesListener
}

func NewOverridesLoader(path string) (*OverridesLoader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("overrides loader requires path")
	}
	l := &OverridesLoader{path: path}
	if err := l.reload(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		logger.Warnf("overrides file %s not found yet, starting without overrides", path)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("overrides watcher failed: %w", err)
	}
	// Watch the directory: editors replace the file, which would orphan a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s failed: %w", filepath.Dir(path), err)
	}
	l.watcher = watcher
	go l.loop()
	return l, nil
}

func (l *OverridesLoader) loop() {
	base := filepath.Base(l.path)
	for {
		select {
		case evt, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(evt.Name) != base {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := l.reload(); err != nil {
				logger.Errorf("overrides reload failed (%s): %v", l.path, err)
				continue
			}
			l.notify()
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("overrides watcher error: %v", err)
		}
	}
}

func (l *OverridesLoader) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}

func (l *OverridesLoader) Snapshot() OverridesSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

// Subscribe registers a listener and immediately delivers the current
// snapshot on the caller's goroutine.
func (l *OverridesLoader) Subscribe(fn OverridesListener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	snap := l.snapshot
	l.mu.Unlock()
	fn(snap)
}

func (l *OverridesLoader) notify() {
	l.mu.RLock()
	snap := l.snapshot
	listeners := append([]OverridesListener(nil), l.listeners...)
	l.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (l *OverridesLoader) reload() error {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}
	var values Overrides
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("parse overrides failed: %w", err)
	}
	if err := validateOverrides(values); err != nil {
		return err
	}
	l.mu.Lock()
	l.snapshot = OverridesSnapshot{
		Version:  l.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Values:   values,
	}
	version := l.snapshot.Version
	l.mu.Unlock()
	logger.Infof("overrides reloaded from %s (version=%d)", filepath.Base(l.path), version)
	return nil
}

func validateOverrides(v Overrides) error {
	if v.RiskPercent < 0 || v.RiskPercent > 100 {
		return fmt.Errorf("risk_percent out of range: %.2f", v.RiskPercent)
	}
	if v.StartHour != nil && (*v.StartHour < 0 || *v.StartHour > 23) {
		return fmt.Errorf("start_hour out of range: %d", *v.StartHour)
	}
	if v.EndHour != nil && (*v.EndHour < 0 || *v.EndHour > 23) {
		return fmt.Errorf("end_hour out of range: %d", *v.EndHour)
	}
	return nil
}

// Apply folds the overrides into a copy of the static config.
func (s OverridesSnapshot) Apply(cfg Config) Config {
	if s.Values.RiskPercent > 0 {
		cfg.Risk.RiskPercent = s.Values.RiskPercent
	}
	if s.Values.MaxSpreadPoints > 0 {
		cfg.Risk.MaxSpreadPoints = s.Values.MaxSpreadPoints
	}
	if s.Values.StartHour != nil {
		cfg.Schedule.StartHour = *s.Values.StartHour
	}
	if s.Values.EndHour != nil {
		cfg.Schedule.EndHour = *s.Values.EndHour
	}
	if s.Values.CloseOnScheduleEnd != nil {
		cfg.Schedule.CloseOnScheduleEnd = *s.Values.CloseOnScheduleEnd
	}
	return cfg
}
