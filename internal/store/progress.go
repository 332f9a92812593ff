// internal/store/progress.go

package store

import (
	"bytes"
	"io"
	"regexp"
	"sync"
)

var pathUnsafeRe = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// progressReader reports upload progress as the transport consumes the
// payload. The SDK may rewind the body on retry, so progress is pinned
// to the furthest byte seen and never goes backwards.
type progressReader struct {
	r          *bytes.Reader
	total      int64
	onProgress func(percent float64)

	mu      sync.Mutex
	maxSeen int64
}

func newProgressReader(data []byte, onProgress func(percent float64)) *progressReader {
	return &progressReader{
		r:          bytes.NewReader(data),
		total:      int64(len(data)),
		onProgress: onProgress,
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.report(pr.total - int64(pr.r.Len()))
	}
	return n, err
}

func (pr *progressReader) Seek(offset int64, whence int) (int64, error) {
	return pr.r.Seek(offset, whence)
}

// complete forces a final 100% report
func (pr *progressReader) complete() {
	if pr.total == 0 {
		if pr.onProgress != nil {
			pr.onProgress(100)
		}
		return
	}
	pr.report(pr.total)
}

func (pr *progressReader) report(pos int64) {
	pr.mu.Lock()
	if pos <= pr.maxSeen {
		pr.mu.Unlock()
		return
	}
	pr.maxSeen = pos
	seen := pr.maxSeen
	pr.mu.Unlock()

	if pr.onProgress == nil {
		return
	}
	if pr.total == 0 {
		pr.onProgress(100)
		return
	}
	pr.onProgress(float64(seen) / float64(pr.total) * 100)
}

var _ io.ReadSeeker = (*progressReader)(nil)
