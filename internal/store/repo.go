package store

import (
	"context"
	"time"
)

// MetricSnapshot is one completed practice session's summary metrics,
// the unit of performance history.
type MetricSnapshot struct {
	ID              int64
	UserID          string
	SessionID       string
	Timestamp       time.Time
	OverallScore    int
	ConfidenceLevel int
	ClarityScore    int
	WordsPerMinute  int
}

// HistoryRepo stores per-user metric history.
type HistoryRepo interface {
	// Append stores snap and returns it with its ID set.
	Append(ctx context.Context, snap MetricSnapshot) (MetricSnapshot, error)

	// Since returns the user's snapshots recorded at or after since,
	// oldest first.
	Since(ctx context.Context, userID string, since time.Time) ([]MetricSnapshot, error)

	// Prune deletes snapshots recorded before cutoff. An empty userID
	// prunes every user. It returns the number of rows removed.
	Prune(ctx context.Context, userID string, cutoff time.Time) (int64, error)
}

// SessionState is the lifecycle state of a practice session.
type SessionState string

const (
	SessionInProgress SessionState = "IN_PROGRESS"
	SessionCompleted  SessionState = "COMPLETED"
)

// PracticeSession is one interview-practice session around a question.
type PracticeSession struct {
	ID           string
	UserID       string
	Question     string
	Role         string
	Industry     string
	QuestionType string
	Category     string
	Difficulty   string
	State        SessionState
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// SessionResponse is one analyzed spoken response within a session.
type SessionResponse struct {
	ID               int64
	SessionID        string
	Transcript       string
	Duration         time.Duration
	WordsPerMinute   int
	FillerWordCount  int
	Pace             int
	Clarity          int
	Confidence       int
	AnalysisScore    int
	AnalysisProvider string
	// Feedback is the JSON-encoded insights and analysis shown to the user.
	Feedback  string
	CreatedAt time.Time
}

// SessionRepo manages practice sessions and their responses.
type SessionRepo interface {
	// Create inserts a new IN_PROGRESS session. It returns ErrConflict
	// when the user already has one open.
	Create(ctx context.Context, s PracticeSession) error

	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*PracticeSession, error)

	// Open returns the user's IN_PROGRESS session or ErrNotFound.
	Open(ctx context.Context, userID string) (*PracticeSession, error)

	// AddResponse appends r to an IN_PROGRESS session, returning
	// ErrConflict when the session is no longer open.
	AddResponse(ctx context.Context, r SessionResponse) (SessionResponse, error)

	// Responses lists a session's responses, oldest first.
	Responses(ctx context.Context, sessionID string) ([]SessionResponse, error)

	// Complete marks the session COMPLETED and appends snap to history
	// in one transaction. It returns ErrConflict when the session is not
	// IN_PROGRESS.
	Complete(ctx context.Context, id string, at time.Time, snap MetricSnapshot) error
}

// QuestionType is the grading mode of a quiz question.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	MultipleSelect QuestionType = "MULTIPLE_SELECT"
	TrueFalse      QuestionType = "TRUE_FALSE"
	ShortAnswer    QuestionType = "SHORT_ANSWER"
)

// AttemptState is the lifecycle state of a quiz attempt.
type AttemptState string

const (
	AttemptInProgress AttemptState = "IN_PROGRESS"
	AttemptSubmitted  AttemptState = "SUBMITTED"
)

// Quiz is a graded quiz definition.
type Quiz struct {
	ID            string
	Title         string
	MaxAttempts   int
	PassingScore  int
	IsRandomized  bool
	TimeLimitSecs int
	CreatedAt     time.Time
}

// Question is a quiz question. CorrectAnswer uses the same encoding as
// Response.Answer: one element for single-valued types.
type Question struct {
	ID            string
	QuizID        string
	Text          string
	Type          QuestionType
	Options       []string
	CorrectAnswer []string
	Points        int
	OrderIndex    int
}

// Attempt is one user's pass through a quiz. QuestionIDs is the ordered
// question set snapshotted at start.
type Attempt struct {
	ID            string
	UserID        string
	QuizID        string
	AttemptNumber int
	MaxScore      int
	Score         *int
	Passed        *bool
	State         AttemptState
	StartedAt     time.Time
	CompletedAt   *time.Time
	QuestionIDs   []string
}

// Response is a graded answer to one question of an attempt.
type Response struct {
	AttemptID    string
	QuestionID   string
	Answer       []string
	IsCorrect    bool
	PointsEarned int
	AnsweredAt   time.Time
}

// QuizRepo manages quizzes, attempts, and responses.
type QuizRepo interface {
	// CreateQuiz inserts a quiz and its questions atomically.
	CreateQuiz(ctx context.Context, q Quiz, questions []Question) error

	// GetQuiz returns the quiz or ErrNotFound.
	GetQuiz(ctx context.Context, id string) (*Quiz, error)

	// ListQuizzes returns all quizzes ordered by title.
	ListQuizzes(ctx context.Context) ([]Quiz, error)

	// Questions returns a quiz's questions ordered by OrderIndex.
	Questions(ctx context.Context, quizID string) ([]Question, error)

	// GetQuestion returns the question or ErrNotFound.
	GetQuestion(ctx context.Context, id string) (*Question, error)

	// StartAttempt counts the user's prior attempts and inserts a with
	// AttemptNumber = prior+1 in one transaction. It returns
	// ErrLimitReached when prior >= maxAttempts.
	StartAttempt(ctx context.Context, a Attempt, maxAttempts int) (Attempt, error)

	// GetAttempt returns the attempt with its question snapshot, or
	// ErrNotFound.
	GetAttempt(ctx context.Context, id string) (*Attempt, error)

	// Attempts lists a user's attempts at a quiz, oldest first.
	Attempts(ctx context.Context, userID, quizID string) ([]Attempt, error)

	// UpsertResponse stores r keyed by (AttemptID, QuestionID), replacing
	// an earlier answer. It returns ErrConflict when the attempt is no
	// longer IN_PROGRESS.
	UpsertResponse(ctx context.Context, r Response) error

	// Responses lists an attempt's responses.
	Responses(ctx context.Context, attemptID string) ([]Response, error)

	// SubmitAttempt sums earned points, sets score, passed and
	// completedAt, and moves the attempt to SUBMITTED with a
	// compare-and-swap on state. It returns ErrConflict when the attempt
	// was already submitted.
	SubmitAttempt(ctx context.Context, id string, passingScore int, at time.Time) (Attempt, error)
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose filter (empty = all)
}

// LLMEvent records one provider request.
type LLMEvent struct {
	ID           int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsage aggregates events by one grouping key.
type LLMUsage struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo is the LLM request log.
type EventRepo interface {
	AppendLLMEvent(ctx context.Context, e LLMEvent) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageBy aggregates events grouped by "purpose" or "model".
	LLMUsageBy(ctx context.Context, groupBy string) ([]LLMUsage, error)
}
