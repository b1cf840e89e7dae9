// package repositories provides SQLite persistence for session state.
package repositories

import (
	"database/sql"
	"fmt"
)

// rowsAffected returns the number of rows changed by result.
func rowsAffected(result sql.Result) (int64, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}
