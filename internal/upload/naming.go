package upload

import (
	"fmt"
	"strings"
	"time"
)

// StoredName derives the filesystem-safe stored filename for an upload:
// whitespace in the original name becomes hyphens, then the upload time in
// epoch milliseconds and the validated extension are appended.
//
// Uniqueness relies on millisecond granularity combined with distinct
// original names; two uploads of the same name in the same millisecond
// collide. Accepted trade-off, kept so stored names stay predictable.
func StoredName(original, ext string, now time.Time) string {
	base := strings.Join(strings.Fields(original), "-")
	return fmt.Sprintf("%s-%d.%s", base, now.UnixMilli(), ext)
}
