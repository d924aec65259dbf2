package application

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
)

// CacheKey fingerprints a request so keyword order and case do not matter.
// The name count is part of the key so a reconfigured N never serves stale-sized results.
func CacheKey(req domain.Request, count int) string {
	keywords := make([]string, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		keywords = append(keywords, strings.ToLower(strings.TrimSpace(kw)))
	}
	sort.Strings(keywords)
	parts := []string{
		strings.Join(keywords, "\x1f"),
		strings.ToLower(strings.TrimSpace(req.Category)),
		strings.ToLower(string(req.Language)),
		strconv.Itoa(count),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1e")))
	return hex.EncodeToString(sum[:])
}
