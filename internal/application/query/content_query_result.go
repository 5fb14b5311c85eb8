package query

import "sqlpractice-service/internal/application/common"

type BankDetailQueryResult struct {
	Bank      *common.BankResult       `json:"bank"`
	Questions []*common.QuestionResult `json:"questions"`
}
