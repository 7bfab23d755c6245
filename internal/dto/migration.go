package dto

// MigrateRequest asks for a legacy board to be rewritten in the current
// format. Only the board owner may run it.
type MigrateRequest struct {
	PubKey string `json:"pubkey" binding:"required"`
	ID     string `json:"id" binding:"required"`
}

// MigrationResult reports what the migration published.
type MigrationResult struct {
	// State is the terminal migration state, Reloaded on success.
	State string  `json:"state"`
	Board *Board  `json:"board,omitempty"`
	Cards []*Card `json:"cards,omitempty"`
}
