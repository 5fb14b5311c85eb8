package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) repositories.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, bankID int64) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &BankModel{}, bankID, "bank"); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&BankFavoriteModel{UserID: userID, BankID: bankID})
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("insert user_bank_favorites: %w", err)
	}
	return created, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, bankID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND bank_id = ?", userID, bankID).
		Delete(&BankFavoriteModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete user_bank_favorites: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *FavoriteRepository) BatchRemove(ctx context.Context, userID int64, bankIDs []int64) (int64, error) {
	if len(bankIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND bank_id IN ?", userID, bankIDs).
		Delete(&BankFavoriteModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete favorites: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *FavoriteRepository) IsFavorited(ctx context.Context, userID, bankID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BankFavoriteModel{}).
		Where("user_id = ? AND bank_id = ?", userID, bankID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query user_bank_favorites: %w", err)
	}
	return count > 0, nil
}

func (r *FavoriteRepository) FavoriteBanks(ctx context.Context, userID int64) ([]*entities.Bank, error) {
	var models []BankModel
	err := r.db.WithContext(ctx).
		Joins("JOIN user_bank_favorites ubf ON ubf.bank_id = question_banks.id").
		Where("ubf.user_id = ?", userID).
		Order("ubf.created_at DESC, ubf.id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query user_bank_favorites: %w", err)
	}
	return mapBanks(models), nil
}
