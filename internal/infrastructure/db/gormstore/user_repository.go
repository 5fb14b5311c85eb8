package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	// Hash password before saving
	if err := userEntity.HashPassword(); err != nil {
		return nil, err
	}

	userModel := UserModel{
		Account:   userEntity.Account,
		Password:  userEntity.Password,
		Name:      userEntity.Name,
		Avatar:    userEntity.Avatar,
		Profile:   userEntity.Profile,
		Role:      userEntity.Role,
		CreatedAt: userEntity.CreatedAt,
		UpdatedAt: userEntity.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByAccount(ctx context.Context, account string) (*entities.User, error) {
	var userModel UserModel
	err := r.db.WithContext(ctx).Unscoped().
		Where("LOWER(user_account) = LOWER(?)", account).
		First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) AccountExists(ctx context.Context, account string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&UserModel{}).
		Where("user_account = ?", entities.NormalizeAccount(account)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) SetRole(ctx context.Context, account, role string) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("user_account = ?", entities.NormalizeAccount(account)).
		Update("user_role", role)
	if res.Error != nil {
		return fmt.Errorf("update user role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.ErrNotFound, "User not found")
	}
	return nil
}

func (r *UserRepository) mapToEntity(userModel *UserModel) *entities.User {
	return &entities.User{
		ID:        userModel.ID,
		Account:   userModel.Account,
		Name:      userModel.Name,
		Password:  userModel.Password,
		Role:      userModel.Role,
		Avatar:    userModel.Avatar,
		Profile:   userModel.Profile,
		CreatedAt: userModel.CreatedAt,
		UpdatedAt: userModel.UpdatedAt,
		Deleted:   userModel.DeletedAt.Valid,
	}
}
