package report

import "go.uber.org/zap"

// Service generates financial statements from a ledger snapshot.
type Service struct {
	ledger Ledger
	log    *zap.Logger
}

// NewService creates a report Service.
func NewService(ledger Ledger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ledger: ledger, log: log}
}
