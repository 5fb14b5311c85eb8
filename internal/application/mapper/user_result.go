package mapper

import (
	"sqlpractice-service/internal/application/common"
	"sqlpractice-service/internal/domain/entities"
)

func NewUserResultFromEntity(user *entities.User) *common.UserResult {
	return &common.UserResult{
		Id:        user.ID,
		Account:   user.Account,
		Name:      user.Name,
		Role:      user.Role,
		Avatar:    user.Avatar,
		Profile:   user.Profile,
		CreatedAt: user.CreatedAt,
	}
}
