package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	ledgerHandler "github.com/MrJamesThe3rd/innledger/internal/http/ledger"
)

type resultResponse struct {
	Reference    string                       `json:"reference"`
	Amount       string                       `json:"amount"`
	Posted       bool                         `json:"posted"`
	Entry        *ledgerHandler.EntryResponse `json:"entry,omitempty"`
	PostingError string                       `json:"posting_error,omitempty"`
}

type orderResponse struct {
	ID            uuid.UUID  `json:"id"`
	Number        string     `json:"order_number"`
	CustomerName  string     `json:"customer_name"`
	RoomNumber    *string    `json:"room_number,omitempty"`
	Total         string     `json:"total"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

func toResultResponse(res *checkout.Result) resultResponse {
	resp := resultResponse{
		Reference: res.Reference,
		Amount:    res.Amount.StringFixed(2),
		Posted:    res.PostingErr == nil && res.Posting != nil,
	}

	if res.Posting != nil {
		entry := ledgerHandler.ToEntryResponse(res.Posting.Entry)
		resp.Entry = &entry
	}

	if res.PostingErr != nil {
		resp.PostingError = res.PostingErr.Error()
	}

	return resp
}

func toOrderResponse(o *checkout.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		Number:        o.Number,
		CustomerName:  o.CustomerName,
		RoomNumber:    o.RoomNumber,
		Total:         o.Total.StringFixed(2),
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		PaidAt:        o.PaidAt,
	}
}
