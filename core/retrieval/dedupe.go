package retrieval

import (
	"hash/fnv"
	"strings"

	"github.com/scenlens/matrixer/model"
)

// contentFingerprintLength is the number of normalized characters hashed
// to detect near-duplicate content across sub-query results
const contentFingerprintLength = 100

// DeduplicateByContent drops results whose content fingerprint was already
// seen, keeping the first occurrence. The fingerprint is a hash of the
// first 100 characters of the lowercased, whitespace-stripped content.
func DeduplicateByContent(results []*model.FusedResult) []*model.FusedResult {
	seen := make(map[uint64]bool, len(results))
	deduped := make([]*model.FusedResult, 0, len(results))

	for _, result := range results {
		fingerprint := contentFingerprint(result.Content)
		if seen[fingerprint] {
			continue
		}
		seen[fingerprint] = true
		deduped = append(deduped, result)
	}

	return deduped
}

func contentFingerprint(content string) uint64 {
	normalized := strings.ToLower(content)
	normalized = strings.Join(strings.Fields(normalized), "")
	if len(normalized) > contentFingerprintLength {
		normalized = normalized[:contentFingerprintLength]
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	return h.Sum64()
}
