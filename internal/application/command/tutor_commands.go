package command

type ExplainCommand struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CheckSQLCommand struct {
	UserSQL    string `json:"userSQL"`
	CorrectSQL string `json:"correctSQL"`
	Question   string `json:"question"`
}
