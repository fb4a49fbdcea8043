package mapper

import (
	"forensichub-be/internal/entity"
	"forensichub-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.PaymentIntent) *entity.PaymentIntent {
	if p == nil {
		return nil
	}
	return &entity.PaymentIntent{
		Id:          p.Id,
		UserId:      p.UserId,
		ItemKind:    entity.PaymentItemKind(p.ItemKind),
		ItemId:      p.ItemId,
		AmountNaira: p.AmountNaira,
		Step:        entity.PaymentStep(p.Step),
		ReceiptPath: p.ReceiptPath,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.PaymentIntent) *model.PaymentIntent {
	if p == nil {
		return nil
	}
	return &model.PaymentIntent{
		Id:          p.Id,
		UserId:      p.UserId,
		ItemKind:    string(p.ItemKind),
		ItemId:      p.ItemId,
		AmountNaira: p.AmountNaira,
		Step:        string(p.Step),
		ReceiptPath: p.ReceiptPath,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
