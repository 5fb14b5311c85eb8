package query

import "sqlpractice-service/internal/application/common"

type UserQueryResult struct {
	Result *common.UserResult `json:"user"`
}
