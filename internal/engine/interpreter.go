package engine

import (
	"time"

	"github.com/abarros/triagem/internal/model"
)

// InterpretClearance derives the semantic checagem state from a record's raw
// clearance fields and validity date. The clearance outcome dominates; expiry
// is only meaningful once a record is confirmed approved.
func InterpretClearance(record model.HistoricalRecord, now time.Time) model.ChecagemState {
	switch record.Clearance {
	case model.ClearancePending:
		return model.ChecagemPendente
	case model.ClearanceRejected:
		return model.ChecagemReprovado
	case model.ClearanceException:
		return model.ChecagemExcecao
	case model.ClearanceApproved:
	default:
		return model.ChecagemSemHistorico
	}

	if record.ValidUntil == nil {
		return model.ChecagemSemHistorico
	}

	// Day granularity in the local calendar: a record valid "until" a given
	// day is still valid on that day.
	if localDay(now).After(localDay(*record.ValidUntil)) {
		return model.ChecagemVencido
	}
	return model.ChecagemValido
}

func localDay(t time.Time) time.Time {
	year, month, day := t.In(time.Local).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
