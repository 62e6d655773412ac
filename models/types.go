package models

// Warning strings shown inline on the register and login views
const (
	WarnNameTaken        = "This Username is already used"
	WarnRegistered       = "User has been registered"
	WarnMissingFields    = "Name and password are required"
	WarnNameTooLong      = "Name must be at most 64 characters"
	WarnPasswordTooLong  = "Password must be at most 72 bytes"
	WarnUserNotFound     = "Warning: User name not found...!"
	WarnWrongPassword    = "Warning: Password is incorrect...!"
	WarnChooseExpert     = "Please choose an expert"
	WarnEmptyQuestion    = "Question text is required"
	WarnEmptyAnswer      = "Answer text is required"
	MsgQuestionSubmitted = "Question has been submitted"
	MsgAlreadyAnswered   = "Question has been answered."
)

// Domain types

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Expert       bool   `json:"expert"`
	Admin        bool   `json:"admin"`
}

// IsExpert reports whether u may receive and answer questions.
// A nil user is anonymous and holds no role.
func (u *User) IsExpert() bool {
	return u != nil && u.Expert
}

// IsAdmin reports whether u may list users and manage roles.
func (u *User) IsAdmin() bool {
	return u != nil && u.Admin
}

// CanAsk reports whether u may ask a question: only non-experts ask.
func (u *User) CanAsk() bool {
	return u != nil && !u.Expert
}

// CanAnswer reports whether u is the expert q is addressed to.
func (u *User) CanAnswer(q *Question) bool {
	return u != nil && q != nil && q.ExpertID == u.ID
}

type Question struct {
	ID           int64   `json:"id"`
	QuestionText string  `json:"question_text"`
	AnswerText   *string `json:"answer_text"`
	AskedByID    int64   `json:"asked_by_id"`
	ExpertID     int64   `json:"expert_id"`
}

// Answered reports whether the question has reached its terminal state
func (q *Question) Answered() bool {
	return q.AnswerText != nil
}

// AnsweredQuestion is a home listing row
type AnsweredQuestion struct {
	QuestionID   int64  `json:"question_id"`
	QuestionText string `json:"question_text"`
	AskedBy      string `json:"asked_by"`
	ExpertName   string `json:"expert_name"`
}

// PendingQuestion is a row in an expert's unanswered queue
type PendingQuestion struct {
	QuestionID   int64  `json:"question_id"`
	QuestionText string `json:"question_text"`
	AskedBy      string `json:"asked_by"`
}

// QuestionDetail is one question with both participant names
type QuestionDetail struct {
	QuestionText string  `json:"question_text"`
	AnswerText   *string `json:"answer_text"`
	AskedBy      string  `json:"asked_by"`
	AnsweredBy   string  `json:"answered_by"`
}

// Request types

// RegisterForm names are stored as sent, surrounding spaces included, so
// blank-only names are rejected rather than trimmed. The password byte
// limit is checked separately against auth.MaxPasswordBytes.
type RegisterForm struct {
	Name     string `validate:"required,notblank,max=64"`
	Password string `validate:"required"`
}

type LoginForm struct {
	Name     string `validate:"required,notblank"`
	Password string `validate:"required"`
}

type AskForm struct {
	ExpertID int64  `validate:"required,gt=0"`
	Question string `validate:"required"`
}

type AnswerForm struct {
	Answer string `validate:"required"`
}

// Views (response types)

type HomeView struct {
	User      *User              `json:"user"`
	Questions []AnsweredQuestion `json:"questions"`
}

type RegisterView struct {
	Warning string `json:"warning"`
}

type LoginView struct {
	User    *User  `json:"user"`
	Warning string `json:"warning"`
}

type QuestionView struct {
	User  *User `json:"user"`
	Found bool  `json:"found"`
	QuestionDetail
}

type UnansweredView struct {
	User      *User             `json:"user"`
	Questions []PendingQuestion `json:"questions"`
}

type AnswerView struct {
	User         *User  `json:"user"`
	QuestionID   int64  `json:"question_id"`
	Found        bool   `json:"found"`
	QuestionText string `json:"question_text"`
	Warning      string `json:"warning,omitempty"`
}

type AskView struct {
	User       *User  `json:"user"`
	Experts    []User `json:"experts"`
	QuestionID int64  `json:"question_id,omitempty"`
	Message    string `json:"message,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

type UsersView struct {
	User  *User  `json:"user"`
	Users []User `json:"users"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
