package person

import "context"

// Repository is the load stage's contract with the database.
type Repository interface {
	// Load persists a batch of normalized people record by record. Each
	// record's multi-table write runs in its own transaction; a failing
	// record is rolled back and the batch continues. Returns the number
	// of records actually persisted, which is the only value callers
	// may rely on programmatically.
	//
	// Returns ErrDatabaseUnavailable (wrapped) when no connection can be
	// established; in that case no records were processed.
	Load(ctx context.Context, people []Person) (int, error)
}
