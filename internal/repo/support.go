package repo

import (
	"VitoriaDiaria/internal/model"
	"context"

	"gorm.io/gorm"
)

// SupportRepository — доступ к записям поддержки.
// Переходы статуса условные: меняется только запись в статусе pending.
type SupportRepository interface {
	Create(ctx context.Context, s *model.Support) error
	GetByID(ctx context.Context, id string) (*model.Support, error)
	GetByReference(ctx context.Context, ref string) (*model.Support, error)

	// SetPaymentReference привязывает ссылку шлюза к pending-записи без ссылки.
	SetPaymentReference(ctx context.Context, id, ref string) (bool, error)
	// Transition переводит pending-запись в статус to. false — запись не в pending.
	Transition(ctx context.Context, id string, to model.PaymentStatus) (bool, error)
	// CompleteByReference переводит pending-запись с этой ссылкой в completed.
	CompleteByReference(ctx context.Context, ref string) (bool, error)

	// ListByRecipient — status "" означает любые статусы. Новые первыми.
	ListByRecipient(ctx context.Context, recipientID string, status model.PaymentStatus) ([]model.Support, error)

	// ListReceived — поддержки получателя с отправителем и элементом.
	ListReceived(ctx context.Context, recipientID string) ([]model.SupportDetail, error)
	// ListSent — поддержки отправителя с получателем и элементом.
	ListSent(ctx context.Context, supporterID string) ([]model.SupportDetail, error)
}

type supportRepo struct {
	db *gorm.DB
}

// NewSupportRepository создаёт репозиторий поддержки.
func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &supportRepo{db: db}
}

func (r *supportRepo) Create(ctx context.Context, s *model.Support) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supportRepo) GetByID(ctx context.Context, id string) (*model.Support, error) {
	var s model.Support
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supportRepo) GetByReference(ctx context.Context, ref string) (*model.Support, error) {
	var s model.Support
	if err := r.db.WithContext(ctx).Where("payment_reference_id = ?", ref).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supportRepo) SetPaymentReference(ctx context.Context, id, ref string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Support{}).
		Where("id = ? AND payment_status = ? AND payment_reference_id IS NULL", id, model.PaymentPending).
		Update("payment_reference_id", ref)
	return res.RowsAffected > 0, res.Error
}

func (r *supportRepo) Transition(ctx context.Context, id string, to model.PaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Support{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentPending).
		Update("payment_status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *supportRepo) CompleteByReference(ctx context.Context, ref string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Support{}).
		Where("payment_reference_id = ? AND payment_status = ?", ref, model.PaymentPending).
		Update("payment_status", model.PaymentCompleted)
	return res.RowsAffected > 0, res.Error
}

func (r *supportRepo) ListByRecipient(ctx context.Context, recipientID string, status model.PaymentStatus) ([]model.Support, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if status != "" {
		q = q.Where("payment_status = ?", status)
	}
	var out []model.Support
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// supportDetailRow — строка выборки с присоединёнными полями.
type supportDetailRow struct {
	model.Support
	PartyName     *string
	PartyUsername *string
	PartyImageURL *string
	TargetName    *string
	TargetIcon    *string
}

const supportDetailSelect = "supports.*, " +
	"u.name AS party_name, u.username AS party_username, u.image_url AS party_image_url, " +
	"COALESCE(a.name, g.name) AS target_name, COALESCE(a.icon, g.icon) AS target_icon"

func (r *supportRepo) ListReceived(ctx context.Context, recipientID string) ([]model.SupportDetail, error) {
	rows, err := r.listDetailed(ctx, "supporter_id", "recipient_id", recipientID)
	if err != nil {
		return nil, err
	}
	out := make([]model.SupportDetail, 0, len(rows))
	for _, row := range rows {
		d := row.detail()
		d.Supporter = row.party()
		out = append(out, d)
	}
	return out, nil
}

func (r *supportRepo) ListSent(ctx context.Context, supporterID string) ([]model.SupportDetail, error) {
	rows, err := r.listDetailed(ctx, "recipient_id", "supporter_id", supporterID)
	if err != nil {
		return nil, err
	}
	out := make([]model.SupportDetail, 0, len(rows))
	for _, row := range rows {
		d := row.detail()
		d.Recipient = row.party()
		out = append(out, d)
	}
	return out, nil
}

// listDetailed присоединяет пользователя по partyCol, фильтрует по ownerCol.
// Имена колонок приходят только из этого файла.
func (r *supportRepo) listDetailed(ctx context.Context, partyCol, ownerCol, ownerID string) ([]supportDetailRow, error) {
	var rows []supportDetailRow
	err := r.db.WithContext(ctx).
		Table("supports").
		Select(supportDetailSelect).
		Joins("LEFT JOIN users u ON u.id = supports." + partyCol).
		Joins("LEFT JOIN addictions a ON supports.target_kind = ? AND a.id = supports.target_item_id", model.KindAddiction).
		Joins("LEFT JOIN goals g ON supports.target_kind = ? AND g.id = supports.target_item_id", model.KindGoal).
		Where("supports."+ownerCol+" = ?", ownerID).
		Order("supports.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (row supportDetailRow) party() *model.PartySummary {
	if row.PartyUsername == nil {
		return nil
	}
	p := &model.PartySummary{Username: *row.PartyUsername, ImageURL: row.PartyImageURL}
	if row.PartyName != nil {
		p.Name = *row.PartyName
	}
	return p
}

func (row supportDetailRow) detail() model.SupportDetail {
	d := model.SupportDetail{Support: row.Support}
	if row.TargetName != nil {
		t := &model.TargetSummary{Name: *row.TargetName}
		if row.TargetIcon != nil {
			t.Icon = *row.TargetIcon
		}
		d.Target = t
	}
	return d
}
