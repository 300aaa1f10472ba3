package sync

import (
	"context"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

const salesPushPath = "/api/v1/sales"

// PushResult summarizes one push cycle.
type PushResult struct {
	// Attempted is how many unsynced records were sent.
	Attempted int
	// Delivered is how many the server recorded, duplicates included.
	Delivered int
	// Rejected is how many failed validation and remain unsynced locally.
	Rejected int
}

// PushReconciler uploads unsynced sales records to the central server. Sales
// only ever travel outward: the central server never writes them back.
type PushReconciler struct {
	client    *Client
	salesRepo repository.SalesRepository
	conflicts *ConflictTracker
}

func NewPushReconciler(client *Client, salesRepo repository.SalesRepository, conflicts *ConflictTracker) *PushReconciler {
	return &PushReconciler{
		client:    client,
		salesRepo: salesRepo,
		conflicts: conflicts,
	}
}

// Push sends every unsynced sale in one batch and marks delivered records
// synced in a single transaction. Duplicates count as delivered because the
// server already holds them; validation rejects stay unsynced and get a
// conflict entry so they do not retry forever invisibly.
func (p *PushReconciler) Push(ctx context.Context, business *model.Business) (PushResult, error) {
	var result PushResult

	if !business.Registered() {
		return result, ErrNotRegistered
	}

	records, err := p.salesRepo.FindUnsynced(business.ID)
	if err != nil {
		return result, err
	}
	if len(records) == 0 {
		logger.Debug("No unsynced sales to push", map[string]interface{}{
			"business_id": business.ID,
		})
		return result, nil
	}
	result.Attempted = len(records)

	payloads := make([]SalesRecordPayload, 0, len(records))
	for _, record := range records {
		payloads = append(payloads, SaleToPayload(record))
	}

	req := SalesPushRequest{
		BusinessID: *business.RemoteID,
		Sales:      payloads,
	}
	var resp SalesPushResponse
	if err := p.client.Post(ctx, salesPushPath, req, &resp); err != nil {
		logger.Warn("Sales push failed", map[string]interface{}{
			"business_id": business.ID,
			"attempted":   result.Attempted,
			"error":       err.Error(),
		})
		return result, err
	}

	rejected := make(map[uint]bool)
	for _, pushErr := range resp.Errors {
		switch pushErr.Code {
		case PushErrorDuplicate:
			// The server already has this receipt, so it is delivered as far
			// as the local ledger is concerned.
			if p.conflicts != nil {
				p.conflicts.Record(ConflictDuplicateRecord, SeverityLow, "sales_records",
					"receipt "+pushErr.ReceiptNumber+" already exists on the remote server")
			}
		case PushErrorValidation:
			rejected[pushErr.ID] = true
			if p.conflicts != nil {
				p.conflicts.Record(ConflictValidation, SeverityHigh, "sales_records",
					"receipt "+pushErr.ReceiptNumber+" rejected by remote server: "+pushErr.Message)
			}
		default:
			// Unknown error codes are treated as rejections so nothing is
			// marked synced without confirmation.
			rejected[pushErr.ID] = true
			logger.Warn("Unknown push error code from server", map[string]interface{}{
				"code":           pushErr.Code,
				"receipt_number": pushErr.ReceiptNumber,
			})
		}
	}

	delivered := make([]uint, 0, len(records))
	for _, record := range records {
		if !rejected[record.ID] {
			delivered = append(delivered, record.ID)
		}
	}
	result.Delivered = len(delivered)
	result.Rejected = len(rejected)

	if err := p.salesRepo.MarkSynced(delivered); err != nil {
		return result, err
	}

	logger.Info("Sales push finished", map[string]interface{}{
		"business_id": business.ID,
		"attempted":   result.Attempted,
		"delivered":   result.Delivered,
		"rejected":    result.Rejected,
	})
	return result, nil
}
