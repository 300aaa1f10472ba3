package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptNumber builds a globally unique receipt number. The date
// prefix keeps receipts human-sortable at the counter; the uuid suffix keeps
// them collision-free across tills that have never synced with each other.
func GenerateReceiptNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return fmt.Sprintf("RCP-%s-%s", at.Format("20060102"), suffix)
}
