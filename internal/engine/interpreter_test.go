package engine

import (
	"testing"
	"time"

	"github.com/abarros/triagem/internal/model"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestInterpretClearance(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		validUntil *time.Time
		name       string
		clearance  model.ClearanceStatus
		want       model.ChecagemState
	}{
		{
			name:      "pending dominates",
			clearance: model.ClearancePending,
			want:      model.ChecagemPendente,
		},
		{
			name:       "pending dominates even with future validity",
			clearance:  model.ClearancePending,
			validUntil: datePtr(now.AddDate(1, 0, 0)),
			want:       model.ChecagemPendente,
		},
		{
			name:      "rejected",
			clearance: model.ClearanceRejected,
			want:      model.ChecagemReprovado,
		},
		{
			name:      "exception",
			clearance: model.ClearanceException,
			want:      model.ChecagemExcecao,
		},
		{
			name:      "unknown raw status means no history",
			clearance: model.ClearanceStatus("LEGACY_VALUE"),
			want:      model.ChecagemSemHistorico,
		},
		{
			name:      "approved without validity date means no history",
			clearance: model.ClearanceApproved,
			want:      model.ChecagemSemHistorico,
		},
		{
			name:       "approved and expired",
			clearance:  model.ClearanceApproved,
			validUntil: datePtr(now.AddDate(0, 0, -1)),
			want:       model.ChecagemVencido,
		},
		{
			name:       "approved with future validity",
			clearance:  model.ClearanceApproved,
			validUntil: datePtr(now.AddDate(0, 1, 0)),
			want:       model.ChecagemValido,
		},
		{
			name:      "valid on the expiry day itself",
			clearance: model.ClearanceApproved,
			// Midnight of the current day: earlier on the clock than now,
			// but the same calendar day, so still valid.
			validUntil: datePtr(time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)),
			want:       model.ChecagemValido,
		},
		{
			name:       "expired the day after the validity day",
			clearance:  model.ClearanceApproved,
			validUntil: datePtr(time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)),
			want:       model.ChecagemVencido,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := model.HistoricalRecord{
				Name:       "Fulano de Tal",
				Clearance:  tt.clearance,
				Cadastro:   model.CadastroOK,
				ValidUntil: tt.validUntil,
			}
			if got := InterpretClearance(record, now); got != tt.want {
				t.Errorf("InterpretClearance() = %v, want %v", got, tt.want)
			}
		})
	}
}
