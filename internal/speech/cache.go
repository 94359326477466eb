package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
)

// Cache serves synthesized audio from disk and asks the wrapped Speaker
// only on a miss. Files under the pre-recorded directory win over both.
type Cache struct {
	next        Speaker
	dir         string
	prerecorded string

	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	done  chan struct{}
	audio []byte
	err   error
}

// NewCache creates the cache directory if needed. prerecorded may be empty.
func NewCache(next Speaker, dir, prerecorded string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create speech cache dir: %w", err)
	}
	return &Cache{
		next:        next,
		dir:         dir,
		prerecorded: prerecorded,
		inflight:    make(map[string]*call),
	}, nil
}

// Speak returns cached audio for text, synthesizing it at most once even
// under concurrent requests.
func (c *Cache) Speak(ctx context.Context, text, lang string) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if audio, ok := c.lookupPrerecorded(text, lang); ok {
		return audio, nil
	}

	key := cacheKey(text, lang)
	path := filepath.Join(c.dir, key+".mp3")
	if audio, err := os.ReadFile(path); err == nil {
		return audio, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("read speech cache", "path", path, "error", err)
	}

	c.mu.Lock()
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.audio, cl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.audio, cl.err = c.next.Speak(ctx, text, lang)
	if cl.err == nil {
		if err := writeAtomic(path, cl.audio); err != nil {
			slog.Warn("write speech cache", "path", path, "error", err)
		}
	}

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	close(cl.done)
	return cl.audio, cl.err
}

// lookupPrerecorded checks <prerecorded>/<lang>/<slug>.mp3.
func (c *Cache) lookupPrerecorded(text, lang string) ([]byte, bool) {
	if c.prerecorded == "" {
		return nil, false
	}
	name := filepath.Join(lang, Slug(text)+".mp3")
	if !filepath.IsLocal(name) {
		return nil, false
	}
	audio, err := os.ReadFile(filepath.Join(c.prerecorded, name))
	if err != nil {
		return nil, false
	}
	slog.Debug("pre-recorded speech", "file", name)
	return audio, true
}

// Slug is the file name stem used for pre-recorded clips: lower case with
// runs of anything but letters and digits collapsed to one underscore.
func Slug(text string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) {
			sep = b.Len() > 0
			continue
		}
		if sep {
			b.WriteByte('_')
			sep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cacheKey(text, lang string) string {
	sum := sha256.Sum256([]byte(lang + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".speech-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
