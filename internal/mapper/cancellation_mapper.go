package mapper

import (
	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/model"
)

type CancellationMapper struct{}

func NewCancellationMapper() *CancellationMapper {
	return &CancellationMapper{}
}

func (m *CancellationMapper) ToEntity(c *model.Cancellation) *entity.Cancellation {
	if c == nil {
		return nil
	}
	res := &entity.Cancellation{
		Id:               c.ID,
		UserId:           c.UserID,
		SubscriptionId:   c.SubscriptionID,
		DownsellVariant:  entity.DownsellVariant(c.DownsellVariant),
		AcceptedDownsell: c.AcceptedDownsell,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Reason != nil {
		res.Reason = entity.CancellationReason(*c.Reason)
	}
	if c.ReasonDetails != nil {
		res.ReasonDetails = *c.ReasonDetails
	}
	return res
}

func (m *CancellationMapper) ToModel(c *entity.Cancellation) *model.Cancellation {
	if c == nil {
		return nil
	}
	return &model.Cancellation{
		ID:               c.Id,
		UserID:           c.UserId,
		SubscriptionID:   c.SubscriptionId,
		DownsellVariant:  string(c.DownsellVariant),
		Reason:           nullableString(string(c.Reason)),
		ReasonDetails:    nullableString(c.ReasonDetails),
		AcceptedDownsell: c.AcceptedDownsell,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// PatchToColumns turns a patch into the column map handed to GORM Updates.
// Empty reason and details are stored as NULL.
func (m *CancellationMapper) PatchToColumns(p entity.CancellationPatch) map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Reason != nil {
		cols["reason"] = nullableString(string(*p.Reason))
	}
	if p.ReasonDetails != nil {
		cols["reason_details"] = nullableString(*p.ReasonDetails)
	}
	if p.AcceptedDownsell != nil {
		cols["accepted_downsell"] = *p.AcceptedDownsell
	}
	return cols
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
