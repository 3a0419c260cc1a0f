package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/cirrus/internal/entity"
)

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// reasonsText joins API reasons for a one-line notice. Field names prefix
// their reason.
func reasonsText(reasons []entity.Reason) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r.Field != "" {
			parts = append(parts, r.Field+": "+r.Reason)
			continue
		}
		parts = append(parts, r.Reason)
	}
	return strings.Join(parts, "; ")
}

// firstError returns the first populated error slot as text.
func firstError(errs entity.Errors) string {
	for _, op := range []entity.Op{entity.OpRead, entity.OpCreate, entity.OpUpdate, entity.OpDelete} {
		if reasons := errs.Slot(op); len(reasons) > 0 {
			return op.String() + ": " + reasonsText(reasons)
		}
	}
	return ""
}
