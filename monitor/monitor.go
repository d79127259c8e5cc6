// Package monitor serves the operator endpoints: runtime status with
// dependency checks, and a tail of the application log.
package monitor

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sourcegraph/conc"
)

const (
	defaultTailLines = 200
	maxTailLines     = 2000
	checkTimeout     = 3 * time.Second
)

// Check is a named dependency health check, e.g. a database ping.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Monitor struct {
	started time.Time
	logPath string
	checks  []Check
}

func New(logPath string, checks ...Check) *Monitor {
	return &Monitor{started: time.Now(), logPath: logPath, checks: checks}
}

type checkResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Status reports uptime, memory and the result of every dependency check.
// Any failing check turns the response into a 503.
func (m *Monitor) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]checkResult, len(m.checks))
		wg      conc.WaitGroup
	)
	for _, check := range m.checks {
		check := check
		wg.Go(func() {
			started := time.Now()
			res := checkResult{Status: "ok"}
			if err := check.Ping(ctx); err != nil {
				res.Status = "down"
				res.Error = err.Error()
			}
			res.LatencyMS = time.Since(started).Milliseconds()

			mu.Lock()
			results[check.Name] = res
			mu.Unlock()
		})
	}
	wg.Wait()

	healthy := true
	for _, res := range results {
		if res.Status != "ok" {
			healthy = false
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":         overall,
		"uptime_seconds": int64(time.Since(m.started).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc":     mem.HeapAlloc,
		"checks":         results,
	})
}

// Logs returns the last ?lines= lines of the log file as plain text.
func (m *Monitor) Logs(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("lines", strconv.Itoa(defaultTailLines)))
	if err != nil || n <= 0 {
		n = defaultTailLines
	}
	if n > maxTailLines {
		n = maxTailLines
	}

	lines, err := tail(m.logPath, n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "system_error", "message": "Unable to read log"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.String(http.StatusOK, "%s", joinLines(lines))
}

// tail keeps a ring of the last n lines while scanning the file once.
func tail(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = append(ring[1:], scanner.Text())
			continue
		}
		ring = append(ring, scanner.Text())
	}
	return ring, scanner.Err()
}

func joinLines(lines []string) string {
	size := 0
	for _, l := range lines {
		size += len(l) + 1
	}
	buf := make([]byte, 0, size)
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	return string(buf)
}
