package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/utils/helpers"
)

// zapcore.ISO8601TimeEncoder
const logTimeLayout = "2006-01-02T15:04:05.000Z0700"

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LogsHandler: просмотр JSON-логов из logs/: текущий app.log и
// ротированные lumberjack-файлы app-<timestamp>.log[.gz].
type LogsHandler struct {
	LogDir    string
	Retention int
}

func NewLogsHandler(dir string) *LogsHandler {
	return &LogsHandler{LogDir: dir, Retention: 7}
}

type logEntry struct {
	Time  string `json:"time"`
	Level string `json:"level"`
}

// Days godoc
// @Summary Дни, за которые есть логи
// @Tags dashboard-logs
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} string
// @Router /api/dashboard/logs/days [get]
func (h *LogsHandler) Days(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -h.Retention).Format("2006-01-02")
	seen := map[string]struct{}{}

	_ = h.forEachLine(func(_ []byte, e logEntry) bool {
		if len(e.Time) >= 10 && e.Time[:10] >= since {
			seen[e.Time[:10]] = struct{}{}
		}
		return true
	})

	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, days)
}

// Logs godoc
// @Summary Логи за день
// @Description Фильтры: level (CSV), hour (0-23), q (подстрока). Пагинация по cursor.
// @Tags dashboard-logs
// @Security ApiKeyAuth
// @Produce json
// @Param day query string true "YYYY-MM-DD"
// @Param level query string false "info,warn,error"
// @Param hour query int false "Час"
// @Param q query string false "Поиск"
// @Param limit query int false "По умолчанию 200, максимум 1000"
// @Param cursor query int false "Смещение"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} helpers.Response
// @Router /api/dashboard/logs [get]
func (h *LogsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	day := query.Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Invalid day")
		return
	}

	levels := map[string]bool{}
	for _, l := range strings.Split(query.Get("level"), ",") {
		if l = strings.TrimSpace(l); l != "" {
			levels[strings.ToUpper(l)] = true
		}
	}
	hour := -1
	if hv, err := strconv.Atoi(query.Get("hour")); err == nil && hv >= 0 && hv <= 23 {
		hour = hv
	}
	q := strings.ToLower(strings.TrimSpace(query.Get("q")))
	limit := clampAtoi(query.Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(query.Get("cursor"), 0, 0, 10_000_000)

	items := make([]json.RawMessage, 0)
	seen := 0
	err := h.forEachLine(func(raw []byte, e logEntry) bool {
		if !strings.HasPrefix(e.Time, day) {
			return true
		}
		if len(levels) > 0 && !levels[strings.ToUpper(e.Level)] {
			return true
		}
		if hour >= 0 {
			if t, err := time.Parse(logTimeLayout, e.Time); err != nil || t.Hour() != hour {
				return true
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(string(raw)), q) {
			return true
		}

		seen++
		if seen <= cursor {
			return true
		}
		items = append(items, append(json.RawMessage{}, raw...))
		return len(items) < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Logs not found")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]any{
		"day":        day,
		"items":      items,
		"nextCursor": cursor + len(items),
	})
}

// Stats godoc
// @Summary Количество записей по часам и уровням
// @Tags dashboard-logs
// @Security ApiKeyAuth
// @Produce json
// @Param day query string true "YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Router /api/dashboard/logs/stats [get]
func (h *LogsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Invalid day")
		return
	}

	stats := make(map[int]map[string]int, 24)
	for hr := 0; hr < 24; hr++ {
		stats[hr] = map[string]int{}
	}
	_ = h.forEachLine(func(_ []byte, e logEntry) bool {
		if !strings.HasPrefix(e.Time, day) {
			return true
		}
		if t, err := time.Parse(logTimeLayout, e.Time); err == nil {
			stats[t.Hour()][strings.ToUpper(e.Level)]++
		}
		return true
	})

	helpers.JSON(w, http.StatusOK, map[string]any{"day": day, "stats": stats})
}

// logFiles: сначала ротированные (по имени, то есть по времени), затем app.log.
func (h *LogsHandler) logFiles() ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}

	var files []string
	current := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == "app.log":
			current = filepath.Join(h.LogDir, name)
		case strings.HasPrefix(name, "app-") && (strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.gz")):
			files = append(files, filepath.Join(h.LogDir, name))
		}
	}
	sort.Strings(files)
	if current != "" {
		files = append(files, current)
	}
	return files, nil
}

// forEachLine обходит JSON-строки всех файлов; не-JSON строки пропускаются.
func (h *LogsHandler) forEachLine(handle func(raw []byte, e logEntry) bool) error {
	files, err := h.logFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return os.ErrNotExist
	}

	for _, path := range files {
		if !h.scanFile(path, handle) {
			return nil
		}
	}
	return nil
}

func (h *LogsHandler) scanFile(path string, handle func(raw []byte, e logEntry) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gz.Close()
		reader = gz
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e logEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		if !handle(sc.Bytes(), e) {
			return false
		}
	}
	return true
}

func clampAtoi(s string, def, min, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
