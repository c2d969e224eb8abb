package data

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared sentinel errors for data-layer repositories.
var (
	// ErrTerminalReport is returned when a state transition targets a
	// report that already reached Complete or Error.
	ErrTerminalReport = errors.New("report already in a terminal state")
	// ErrEmptyBatch is returned when a bulk insert receives no rows.
	ErrEmptyBatch = errors.New("empty batch")
)

// classifyPgError wraps Postgres constraint violations with a readable
// operation prefix; other errors pass through wrapped as-is.
func classifyPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: duplicate row: %w", op, err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%s: invalid row data: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
