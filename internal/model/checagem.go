package model

// ChecagemState is the semantic verification state derived from a historical
// record's raw fields. It is computed fresh on every resolution and never
// stored.
type ChecagemState string

// Derived checagem states.
const (
	ChecagemValido       ChecagemState = "valido"
	ChecagemVencido      ChecagemState = "vencido"
	ChecagemSemHistorico ChecagemState = "sem_historico"
	ChecagemPendente     ChecagemState = "pendente"
	ChecagemReprovado    ChecagemState = "reprovado"
	ChecagemExcecao      ChecagemState = "excecao"
)
