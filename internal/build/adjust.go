package build

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// adjustStep is one structural transformation. Steps run in declaration
// order and the order is load-bearing: indexes follow population, the
// socios join follows the cnpj derivation, and socios_original is only
// dropped after the join has read it.
type adjustStep struct {
	label string
	sql   string
}

func adjustSteps() []adjustStep {
	return []adjustStep{
		{"add empresas.capital_social", `ALTER TABLE empresas ADD COLUMN capital_social REAL;`},
		// decimal comma to decimal point; thousands dots removed first;
		// text without any digit stays NULL instead of a bogus zero
		{"coerce empresas.capital_social", `UPDATE empresas SET capital_social =
			CASE WHEN capital_social_str GLOB '*[0-9]*'
			THEN CAST(REPLACE(REPLACE(capital_social_str, '.', ''), ',', '.') AS REAL)
			END;`},
		{"drop empresas.capital_social_str", `ALTER TABLE empresas DROP COLUMN capital_social_str;`},

		{"add estabelecimento.cnpj", `ALTER TABLE estabelecimento ADD COLUMN cnpj TEXT;`},
		{"populate estabelecimento.cnpj", `UPDATE estabelecimento SET cnpj = cnpj_basico || cnpj_ordem || cnpj_dv;`},

		{"index empresas(cnpj_basico)", `CREATE INDEX idx_empresas_cnpj_basico ON empresas(cnpj_basico);`},
		{"index empresas(razao_social)", `CREATE INDEX idx_empresas_razao_social ON empresas(razao_social);`},
		{"index estabelecimento(cnpj_basico)", `CREATE INDEX idx_estabelecimento_cnpj_basico ON estabelecimento(cnpj_basico);`},
		{"index estabelecimento(cnpj)", `CREATE INDEX idx_estabelecimento_cnpj ON estabelecimento(cnpj);`},
		{"index estabelecimento(nome_fantasia)", `CREATE INDEX idx_estabelecimento_nomefantasia ON estabelecimento(nome_fantasia);`},
		{"index socios_original(cnpj_basico)", `CREATE INDEX idx_socios_original_cnpj_basico ON socios_original(cnpj_basico);`},

		// partners re-keyed by the headquarters' full cnpj; branch-linked
		// partner rows are excluded by the matriz_filial filter
		{"materialize socios", `CREATE TABLE socios AS
			SELECT te.cnpj AS cnpj, ts.*
			FROM socios_original ts
			LEFT JOIN estabelecimento te ON te.cnpj_basico = ts.cnpj_basico
			WHERE te.matriz_filial = '1';`},
		{"drop socios_original", `DROP TABLE IF EXISTS socios_original;`},

		{"index socios(cnpj)", `CREATE INDEX idx_socios_cnpj ON socios(cnpj);`},
		{"index socios(cnpj_cpf_socio)", `CREATE INDEX idx_socios_cnpj_cpf_socio ON socios(cnpj_cpf_socio);`},
		{"index socios(nome_socio)", `CREATE INDEX idx_socios_nome_socio ON socios(nome_socio);`},
		{"index socios(representante_legal)", `CREATE INDEX idx_socios_representante ON socios(representante_legal);`},
		{"index socios(nome_representante)", `CREATE INDEX idx_socios_representante_nome ON socios(nome_representante);`},
		{"index simples(cnpj_basico)", `CREATE INDEX idx_simples_cnpj_basico ON simples(cnpj_basico);`},

		{"create _referencia", `CREATE TABLE "_referencia" ("referencia" TEXT, "valor" TEXT);`},
	}
}

// adjustTables runs every step in order. The sequence is not atomic as a
// whole: a failure leaves an intermediate database, which the exists-check
// in Run keeps a later run from silently reusing.
func adjustTables(ctx context.Context, conn *sql.DB) error {
	slog.Info("adjusting tables and creating indexes")
	for _, st := range adjustSteps() {
		slog.Info("schema adjustment", "step", st.label)
		if _, err := conn.ExecContext(ctx, st.sql); err != nil {
			return fmt.Errorf("schema adjustment %q: %w", st.label, err)
		}
	}
	return nil
}
