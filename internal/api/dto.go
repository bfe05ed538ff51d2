package api

// Request bodies. Validation tags cover shape; domain rules (difficulty
// values, note ownership) are enforced in the services.

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

type createSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type noteRequest struct {
	SubjectID int64  `json:"subject_id" validate:"omitempty,gt=0"`
	Title     string `json:"title" validate:"required,min=1,max=256"`
	Content   string `json:"content" validate:"required,min=1"`
	YearLevel int    `json:"year_level" validate:"omitempty,min=1,max=4"`
}

type generateQuestionsRequest struct {
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard all"`
	Count      int    `json:"count" validate:"required,min=1,max=20"`
}

type reviewSetupRequest struct {
	NoteIDs      []int64 `json:"note_ids" validate:"required,min=1,dive,gt=0"`
	Difficulty   string  `json:"difficulty" validate:"required,oneof=easy medium hard all"`
	QuestionType string  `json:"question_type" validate:"required,oneof=all default generated"`
	Count        string  `json:"count" validate:"required,oneof=5 10 all"`
}

type answerTextRequest struct {
	Text string `json:"text"`
}

type saveAnswerRequest struct {
	Force bool `json:"force"`
}

type navigateRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev"`
}

type rateRequest struct {
	Rating string `json:"rating" validate:"required,oneof=easy medium hard"`
}
