package command

type CreateQuestionCommand struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Answer  string   `json:"answer"`
	Tags    []string `json:"tags"`
	UserId  int64    `json:"-"`
}

type CreateBankCommand struct {
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	UserId      int64  `json:"-"`
}

type BatchUnfavoriteCommand struct {
	Ids []int64 `json:"ids"`
}
