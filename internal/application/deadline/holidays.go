package deadline

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
)

// holidayFile is the on-disk YAML shape: a flat list of ISO dates.
//
//	holidays:
//	  - 2025-01-01
//	  - 2025-01-06
type holidayFile struct {
	Holidays []string `yaml:"holidays"`
}

// FileHolidayProvider loads non-working dates from a YAML file and reloads it
// when the file changes on disk.  It implements HolidayProvider; with an
// empty or missing date set it degrades to the weekends-only rule.
type FileHolidayProvider struct {
	path string
	log  logging.Logger

	mu    sync.RWMutex
	dates map[string]struct{} // keyed by "2006-01-02"

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileHolidayProvider reads path and returns a provider.  The initial load
// must succeed; subsequent reload failures keep the last good set.
func NewFileHolidayProvider(path string, log logging.Logger) (*FileHolidayProvider, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &FileHolidayProvider{
		path:  path,
		log:   log.Named("holidays"),
		dates: map[string]struct{}{},
		done:  make(chan struct{}),
	}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// IsHoliday reports whether d's calendar date is in the loaded set.
func (p *FileHolidayProvider) IsHoliday(d time.Time) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.dates[d.Format("2006-01-02")]
	return ok
}

// Count returns the number of loaded holiday dates.
func (p *FileHolidayProvider) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.dates)
}

// Watch starts a background goroutine that reloads the file on writes.
// Editors often replace files via rename, so the parent directory is watched
// and events are filtered by name.  Close stops the watcher.
func (p *FileHolidayProvider) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create holiday file watcher")
	}
	if err := w.Add(filepath.Dir(p.path)); err != nil {
		_ = w.Close()
		return errors.Wrap(err, errors.CodeInternal, "failed to watch holiday file directory")
	}
	p.watcher = w

	go func() {
		for {
			select {
			case <-p.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(p.path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := p.reload(); err != nil {
					p.log.Warn("holiday file reload failed; keeping previous set",
						logging.String("path", p.path), logging.Err(err))
					continue
				}
				p.log.Info("holiday calendar reloaded",
					logging.String("path", p.path), logging.Int("dates", p.Count()))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				p.log.Warn("holiday file watcher error", logging.Err(err))
			}
		}
	}()
	return nil
}

// Close stops the watcher goroutine.
func (p *FileHolidayProvider) Close() error {
	close(p.done)
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}

// reload parses the file and swaps the date set atomically.
func (p *FileHolidayProvider) reload() error {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidParam, "failed to read holiday file")
	}

	var f holidayFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to parse holiday file")
	}

	dates := make(map[string]struct{}, len(f.Holidays))
	for _, s := range f.Holidays {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return errors.New(errors.CodeInvalidParam, "invalid holiday date "+s).WithCause(err)
		}
		dates[s] = struct{}{}
	}

	p.mu.Lock()
	p.dates = dates
	p.mu.Unlock()
	return nil
}
