package build

import (
	"strings"
	"testing"
)

func stepIndex(t *testing.T, steps []adjustStep, label string) int {
	t.Helper()
	for i, st := range steps {
		if st.label == label {
			return i
		}
	}
	t.Fatalf("step %q not found", label)
	return -1
}

// Index creation must follow population, the socios join must follow the
// cnpj derivation, and socios_original may only be dropped after the join.
func TestAdjustSteps_Ordering(t *testing.T) {
	t.Parallel()

	steps := adjustSteps()

	populateCNPJ := stepIndex(t, steps, "populate estabelecimento.cnpj")
	join := stepIndex(t, steps, "materialize socios")
	drop := stepIndex(t, steps, "drop socios_original")
	sociosOrigIdx := stepIndex(t, steps, "index socios_original(cnpj_basico)")
	sociosIdx := stepIndex(t, steps, "index socios(cnpj)")

	if join <= populateCNPJ {
		t.Fatal("socios join must run after the cnpj derivation")
	}
	if join <= sociosOrigIdx {
		t.Fatal("socios join must run after socios_original is indexed")
	}
	if drop <= join {
		t.Fatal("socios_original must only be dropped after the join reads it")
	}
	if sociosIdx <= join {
		t.Fatal("socios indexes must follow the socios materialization")
	}
}

func TestAdjustSteps_CoercionBeforeDrop(t *testing.T) {
	t.Parallel()

	steps := adjustSteps()
	add := stepIndex(t, steps, "add empresas.capital_social")
	coerce := stepIndex(t, steps, "coerce empresas.capital_social")
	drop := stepIndex(t, steps, "drop empresas.capital_social_str")
	if !(add < coerce && coerce < drop) {
		t.Fatalf("capital_social steps out of order: add=%d coerce=%d drop=%d", add, coerce, drop)
	}
}

func TestAdjustSteps_JoinFiltersHeadquarters(t *testing.T) {
	t.Parallel()

	for _, st := range adjustSteps() {
		if st.label == "materialize socios" {
			if !strings.Contains(st.sql, "matriz_filial = '1'") {
				t.Fatalf("join must filter headquarters rows: %s", st.sql)
			}
			return
		}
	}
	t.Fatal("materialize socios step not found")
}
