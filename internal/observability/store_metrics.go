package observability

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ObserveStore times a logical credential-store operation and counts
// its failures by class. Works for any backend; the classifier knows
// about postgres error codes and filesystem errors.
func (p *Prom) ObserveStore(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrors.WithLabelValues(op, classifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyStoreErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "40001":
			return "serialization_failure"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "file_io"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "csv"):
		return "malformed_row"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
