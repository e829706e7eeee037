package store

// Run queries
const (
	queryGetRun = `
		SELECT id, state, error, job_count, result_count, created_at, updated_at
		FROM runs WHERE id = ?`

	queryUpsertRun = `
		INSERT INTO runs (id, state, error, job_count, result_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			error = EXCLUDED.error,
			job_count = EXCLUDED.job_count,
			result_count = EXCLUDED.result_count,
			updated_at = now()`

	queryDeleteRun = `DELETE FROM runs WHERE id = ?`
)
