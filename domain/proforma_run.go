package domain

import (
	"encoding/json"
	"time"
)

type ProformaKind string

const (
	KindLotDevelopment ProformaKind = "lot_development"
	KindLotPurchase    ProformaKind = "lot_purchase"
)

// ProformaRun is a saved calculation: the raw input and result documents.
type ProformaRun struct {
	ID        string          `json:"id"`
	Kind      ProformaKind    `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
