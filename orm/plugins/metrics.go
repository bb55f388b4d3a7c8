package plugins

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/geobrowser/geo-stream/metrics"
)

const startTimeKey = "metrics:start_time"

// Order matters: the generic FROM pattern must come after DELETE FROM.
var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)INSERT\s+INTO\s+["\x60]?(\w+)["\x60]?`),
	regexp.MustCompile(`(?i)DELETE\s+FROM\s+["\x60]?(\w+)["\x60]?`),
	regexp.MustCompile(`(?i)UPDATE\s+["\x60]?(\w+)["\x60]?`),
	regexp.MustCompile(`(?i)FROM\s+["\x60]?(\w+)["\x60]?`),
}

var operations = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP"}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// MetricsPlugin is a GORM plugin that tracks database query metrics
type MetricsPlugin struct{}

func NewMetricsPlugin() *MetricsPlugin {
	return &MetricsPlugin{}
}

func (p *MetricsPlugin) Name() string {
	return "MetricsPlugin"
}

func (p *MetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name string
		at   registrar
		fn   func(*gorm.DB)
	}{
		{"metrics:before_query", cb.Query().Before("*"), p.before},
		{"metrics:after_query", cb.Query().After("*"), p.after},
		{"metrics:before_create", cb.Create().Before("*"), p.before},
		{"metrics:after_create", cb.Create().After("*"), p.after},
		{"metrics:before_update", cb.Update().Before("*"), p.before},
		{"metrics:after_update", cb.Update().After("*"), p.after},
		{"metrics:before_delete", cb.Delete().Before("*"), p.before},
		{"metrics:after_delete", cb.Delete().After("*"), p.after},
		{"metrics:before_raw", cb.Raw().Before("*"), p.before},
		{"metrics:after_raw", cb.Raw().After("*"), p.after},
	}
	for _, h := range hooks {
		if err := h.at.Register(h.name, h.fn); err != nil {
			return err
		}
	}
	return nil
}

func (p *MetricsPlugin) before(db *gorm.DB) {
	db.Set(startTimeKey, time.Now())
}

func (p *MetricsPlugin) after(db *gorm.DB) {
	v, ok := db.Get(startTimeKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	duration := time.Since(start).Seconds()

	operation := OperationType(db)
	status := "success"
	if db.Error != nil {
		status = "error"
	}

	metrics.DBQueriesTotal().WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration().WithLabelValues(operation, TableName(db)).Observe(duration)
	if operation != "SELECT" && db.RowsAffected >= 0 {
		metrics.DBRowsAffected().WithLabelValues(operation).Observe(float64(db.RowsAffected))
	}
}

// OperationType is the leading SQL verb of the statement, or UNKNOWN when no
// SQL was built.
func OperationType(db *gorm.DB) string {
	if db.Statement == nil {
		return "UNKNOWN"
	}
	return operationOf(db.Statement.SQL.String())
}

func operationOf(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	if sql == "" {
		return "UNKNOWN"
	}
	for _, op := range operations {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

func TableName(db *gorm.DB) string {
	if db.Statement == nil {
		return "unknown"
	}
	if db.Statement.Table != "" {
		return db.Statement.Table
	}
	if table := tableFromSQL(db.Statement.SQL.String()); table != "" {
		return table
	}
	return "unknown"
}

func tableFromSQL(sql string) string {
	for _, re := range tablePatterns {
		if m := re.FindStringSubmatch(sql); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
