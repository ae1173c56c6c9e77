// Package model defines the core domain models used throughout the application.
package model

import "time"

// ClearanceStatus is the raw checagem outcome stored on a historical record.
type ClearanceStatus string

// Clearance status constants.
const (
	ClearancePending   ClearanceStatus = "PENDING"
	ClearanceApproved  ClearanceStatus = "APPROVED"
	ClearanceRejected  ClearanceStatus = "REJECTED"
	ClearanceException ClearanceStatus = "EXCEPTION"
)

// CadastroState is the site-access clearance workflow state, distinct from
// the checagem clearance status.
type CadastroState string

// Cadastro state constants.
const (
	CadastroOK      CadastroState = "OK"
	CadastroPending CadastroState = "PENDING"
	CadastroUrgent  CadastroState = "URGENT"
	CadastroExpired CadastroState = "VENCIDA"
)

// InPipeline reports whether the cadastro is still moving through the
// clearance workflow.
func (s CadastroState) InPipeline() bool {
	return s == CadastroPending || s == CadastroUrgent
}

// HistoricalRecord is a provider's last-known verification outcome. It is
// owned by the approval workflow; the screening engine only reads it.
type HistoricalRecord struct {
	ValidUntil        *time.Time
	EvaluatedOn       *time.Time
	PrimaryDocument   string
	SecondaryDocument string
	Name              string
	Company           string
	Clearance         ClearanceStatus
	Cadastro          CadastroState
}
