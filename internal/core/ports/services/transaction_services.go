package services

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	GetTransactionByInvoice(ctx context.Context, invoiceNumber string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines the checkout and lifecycle operations.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, cashierID string) (*domain.Transaction, error)
	SettleTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)
	CancelTransaction(ctx context.Context, transactionID string, reason string, userID string) (*domain.Transaction, error)
	RefundTransaction(ctx context.Context, transactionID string, req dto.RefundTransactionRequest, userID string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines reader and writer operations.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
