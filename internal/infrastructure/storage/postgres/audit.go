package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"restock/internal/core/id"
	"restock/internal/domain/documents/stockorder"
)

// CompressionAlgo specifies how a correction payload is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// CorrectionStore persists the stage correction audit trail. Payloads carry
// the full before/after record as JSON; large payloads are zstd-compressed.
// Implements stockorder.CorrectionStore.
type CorrectionStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ stockorder.CorrectionStore = (*CorrectionStore)(nil)

// NewCorrectionStore creates the audit store.
func NewCorrectionStore(txManager *TxManager) (*CorrectionStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &CorrectionStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record inserts one correction. Joins the caller's transaction when present,
// so the correction commits atomically with the corrected stage write.
func (s *CorrectionStore) Record(ctx context.Context, c stockorder.Correction) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal correction: %w", err)
	}

	var compressed []byte
	algo := CompressionNone
	if len(payload) > s.compressThreshold {
		compressed = s.encoder.EncodeAll(payload, nil)
		payload = nil
		algo = CompressionZstd
	}

	orderID, err := id.Parse(c.OrderID)
	if err != nil {
		return fmt.Errorf("parse correction order id: %w", err)
	}

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, `
		INSERT INTO stock_order_corrections (
			id, order_id, line_no, stage, actor, reason,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		id.New(), orderID, c.LineNo, string(c.Stage), c.Actor, c.Reason,
		payload, compressed, string(algo), c.CreatedAt,
	)
	return err
}

// ListByOrder returns an order's corrections, oldest first.
func (s *CorrectionStore) ListByOrder(ctx context.Context, orderID id.ID) ([]stockorder.Correction, error) {
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, `
		SELECT payload, payload_compressed, compression_algo
		FROM stock_order_corrections
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer rows.Close()

	var out []stockorder.Correction
	for rows.Next() {
		var payload, compressed []byte
		var algo string
		if err := rows.Scan(&payload, &compressed, &algo); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}

		if CompressionAlgo(algo) == CompressionZstd && len(compressed) > 0 {
			payload, err = s.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress correction: %w", err)
			}
		}

		var c stockorder.Correction
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("unmarshal correction: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
