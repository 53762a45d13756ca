package postgres

import (
	"context"

	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"
	"shop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// memberRepository implements repository.MemberRepository using GORM.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository is the constructor for memberRepository.
func NewMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	return repo.first(ctx, "find member by id", memberCols.ID.Eq(id))
}

func (repo *memberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	return repo.first(ctx, "find member by email", memberCols.Email.Eq(entity.NormalizeEmail(email)))
}

func (repo *memberRepository) first(ctx context.Context, op string, cond interface{}) (*entity.Member, error) {
	var memberM model.MemberModel
	err := repo.db.WithContext(ctx).Where(cond).First(&memberM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, op)
	}

	return toMemberDomain(&memberM), nil
}

func (repo *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	memberM, err := fromMemberDomain(member)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(memberM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}

		return domainerrors.NewDatabaseExecuteError(err, "create member")
	}

	member.ID = memberM.ID
	member.Audit = memberM.ToAudit()

	return nil
}

func (repo *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	result := repo.db.WithContext(ctx).
		Model(&model.MemberModel{}).
		Where(memberCols.ID.Eq(member.ID)).
		Updates(map[string]any{
			"name":          member.Name,
			"password_hash": member.PasswordHash,
			"address":       member.Address,
			"role":          string(member.Role),
			"social":        member.Social,
			"provider":      member.Provider,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "update member")
	}
	if result.RowsAffected == 0 {
		return repository.ErrMemberNotFound
	}

	return nil
}

func toMemberDomain(memberM *model.MemberModel) *entity.Member {
	return &entity.Member{
		ID:           memberM.ID,
		Name:         memberM.Name,
		Email:        memberM.Email,
		PasswordHash: memberM.PasswordHash,
		Address:      memberM.Address,
		Role:         entity.Role(memberM.Role),
		Social:       memberM.Social,
		Provider:     memberM.Provider,
		Audit:        memberM.ToAudit(),
	}
}

func fromMemberDomain(member *entity.Member) (*model.MemberModel, error) {
	id, err := ensureID(member.ID)
	if err != nil {
		return nil, err
	}

	return &model.MemberModel{
		ID:           id,
		Name:         member.Name,
		Email:        entity.NormalizeEmail(member.Email),
		PasswordHash: member.PasswordHash,
		Address:      member.Address,
		Role:         string(member.Role),
		Social:       member.Social,
		Provider:     member.Provider,
		AuditModel:   model.FromAudit(member.Audit),
	}, nil
}

// ensureID returns id, or a new time-ordered UUID when id is unset.
func ensureID(id uuid.UUID) (uuid.UUID, error) {
	if id != uuid.Nil {
		return id, nil
	}
	newID, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to generate id")
	}

	return newID, nil
}
