package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSuffix returns a deployment suffix of the form 20060102-a1b2c3.
// Every resource created in one provisioning run carries the same suffix, so
// the run's resources are identifiable as a set.
func GenerateSuffix() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102"), token)
}

// Suffixed joins a base resource name with a deployment suffix.
func Suffixed(base, suffix string) string {
	return base + "-" + suffix
}
