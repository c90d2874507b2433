package build

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// writeReferenceData records snapshot provenance: the reference date decoded
// from the source file names and the establishment row count as a proxy for
// the snapshot's record total.
func writeReferenceData(ctx context.Context, conn *sql.DB, reference string) error {
	var count int64
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM estabelecimento;`).Scan(&count); err != nil {
		return fmt.Errorf("count estabelecimento: %w", err)
	}
	for _, kv := range [][2]string{
		{"CNPJ", reference},
		{"cnpj_qtde", strconv.FormatInt(count, 10)},
	} {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO _referencia (referencia, valor) VALUES (?, ?);`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("insert reference %s: %w", kv[0], err)
		}
	}
	return nil
}
