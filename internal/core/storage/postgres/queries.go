package postgres

// SQL for the partition result cache. Rows are keyed by the SHA-256 of the
// cache key so that arbitrarily long normalized queries fit a fixed-width
// primary key; the full key is stored alongside and verified on read.

const (
	queryGetResult = `
		SELECT cache_key, terms, total_count, missing_count, other_count
		FROM partition_results
		WHERE key_hash = $1
	`

	// queryUpsertResult overwrites an existing entry. A partition that was
	// fully covered never changes, so last write wins.
	queryUpsertResult = `
		INSERT INTO partition_results (
			key_hash, cache_key, terms, total_count, missing_count, other_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key_hash) DO UPDATE SET
			cache_key     = EXCLUDED.cache_key,
			terms         = EXCLUDED.terms,
			total_count   = EXCLUDED.total_count,
			missing_count = EXCLUDED.missing_count,
			other_count   = EXCLUDED.other_count,
			created_at    = EXCLUDED.created_at
	`

	queryClearResults = `DELETE FROM partition_results`

	queryResultsTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'partition_results'
		)
	`
)
