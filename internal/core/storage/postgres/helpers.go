package postgres

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/lib/pq"
)

// hashKey returns the hex SHA-256 of a cache key.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanResultRow scans a partition_results row. It returns the stored cache
// key so the caller can reject hash collisions.
func scanResultRow(row scanner) (string, *aggregation.PartialResult, error) {
	var (
		key    string
		result aggregation.PartialResult
		terms  []string
	)

	err := row.Scan(
		&key,
		pq.Array(&terms),
		&result.Total,
		&result.Missing,
		&result.Other,
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to scan partition result row: %w", err)
	}

	if terms == nil {
		terms = []string{}
	}
	result.Terms = terms
	return key, &result, nil
}
