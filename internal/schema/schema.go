// Package schema declares the fixed layout of the Receita Federal CNPJ
// open-data files: one TableSpec per entity, with the ordered column list
// each semicolon-delimited source file follows.
package schema

import "strings"

// TableSpec binds a database table to the filename pattern of its source
// files and the ordered columns of each record. Specs are static metadata;
// stages receive them by value and never mutate them.
type TableSpec struct {
	Table       string
	FilePattern string
	Columns     []string
}

var (
	Empresas = TableSpec{
		Table:       "empresas",
		FilePattern: "*.EMPRECSV",
		Columns: []string{
			"cnpj_basico",
			"razao_social",
			"natureza_juridica",
			"qualificacao_responsavel",
			"capital_social_str",
			"porte_empresa",
			"ente_federativo_responsavel",
		},
	}
	Estabelecimento = TableSpec{
		Table:       "estabelecimento",
		FilePattern: "*.ESTABELE",
		Columns: []string{
			"cnpj_basico", "cnpj_ordem", "cnpj_dv", "matriz_filial", "nome_fantasia",
			"situacao_cadastral", "data_situacao_cadastral", "motivo_situacao_cadastral",
			"nome_cidade_exterior", "pais", "data_inicio_atividades", "cnae_fiscal",
			"cnae_fiscal_secundaria", "tipo_logradouro", "logradouro", "numero",
			"complemento", "bairro", "cep", "uf", "municipio", "ddd1", "telefone1",
			"ddd2", "telefone2", "ddd_fax", "fax", "correio_eletronico",
			"situacao_especial", "data_situacao_especial",
		},
	}
	SociosOriginal = TableSpec{
		Table:       "socios_original",
		FilePattern: "*.SOCIOCSV",
		Columns: []string{
			"cnpj_basico", "identificador_de_socio", "nome_socio", "cnpj_cpf_socio",
			"qualificacao_socio", "data_entrada_sociedade", "pais", "representante_legal",
			"nome_representante", "qualificacao_representante_legal", "faixa_etaria",
		},
	}
	Simples = TableSpec{
		Table:       "simples",
		FilePattern: "*.SIMPLES.CSV.*",
		Columns: []string{
			"cnpj_basico", "opcao_simples", "data_opcao_simples", "data_exclusao_simples",
			"opcao_mei", "data_opcao_mei", "data_exclusao_mei",
		},
	}
)

// LargeTables lists the entity tables loaded by the bulk loader, in load order.
var LargeTables = []TableSpec{Empresas, Estabelecimento, SociosOriginal, Simples}

// CodeTable maps a two-column lookup file suffix to its table name.
type CodeTable struct {
	FileSuffix string
	Table      string
}

// CodeTables in the order they are loaded. Each file is a headerless
// (codigo, descricao) pair list.
var CodeTables = []CodeTable{
	{".CNAECSV", "cnae"},
	{".MOTICSV", "motivo"},
	{".MUNICCSV", "municipio"},
	{".NATJUCSV", "natureza_juridica"},
	{".PAISCSV", "pais"},
	{".QUALSCSV", "qualificacao_socio"},
}

// CreateTableSQL renders the DDL for a spec. All columns are TEXT: type
// rationalization happens after load, against the loaded text.
func CreateTableSQL(t TableSpec) string {
	var sb strings.Builder
	sb.WriteString(`CREATE TABLE "`)
	sb.WriteString(t.Table)
	sb.WriteString(`" (`)
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"`)
		sb.WriteString(c)
		sb.WriteString(`" TEXT`)
	}
	sb.WriteString(");")
	return sb.String()
}
