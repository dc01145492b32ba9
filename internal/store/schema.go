package store

// Table and column names shared by the repositories.
const (
	tableSnapshots        = "metric_snapshots"
	tableSessions         = "practice_sessions"
	tableSessionResponses = "session_responses"
	tableQuizzes          = "quizzes"
	tableQuestions        = "quiz_questions"
	tableAttempts         = "quiz_attempts"
	tableAttemptQuestions = "attempt_questions"
	tableQuizResponses    = "quiz_responses"
	tableLLMEvents        = "llm_events"
)

// schema is applied in order on every Open. Timestamps are stored as
// unix milliseconds so range filters compare numerically.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS metric_snapshots (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id          TEXT    NOT NULL,
		session_id       TEXT    NOT NULL DEFAULT '',
		recorded_at      INTEGER NOT NULL,
		overall_score    INTEGER NOT NULL,
		confidence_level INTEGER NOT NULL,
		clarity_score    INTEGER NOT NULL,
		words_per_minute INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_metric_snapshots_user_time
		ON metric_snapshots (user_id, recorded_at)`,

	`CREATE TABLE IF NOT EXISTS practice_sessions (
		id            TEXT    PRIMARY KEY,
		user_id       TEXT    NOT NULL,
		question      TEXT    NOT NULL,
		role          TEXT    NOT NULL DEFAULT '',
		industry      TEXT    NOT NULL DEFAULT '',
		question_type TEXT    NOT NULL,
		category      TEXT    NOT NULL,
		difficulty    TEXT    NOT NULL,
		state         TEXT    NOT NULL,
		started_at    INTEGER NOT NULL,
		completed_at  INTEGER
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_practice_sessions_one_open
		ON practice_sessions (user_id) WHERE state = 'IN_PROGRESS'`,

	`CREATE TABLE IF NOT EXISTS session_responses (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id        TEXT    NOT NULL REFERENCES practice_sessions (id) ON DELETE CASCADE,
		transcript        TEXT    NOT NULL,
		duration_ms       INTEGER NOT NULL,
		words_per_minute  INTEGER NOT NULL,
		filler_word_count INTEGER NOT NULL,
		pace              INTEGER NOT NULL,
		clarity           INTEGER NOT NULL,
		confidence        INTEGER NOT NULL,
		analysis_score    INTEGER NOT NULL,
		analysis_provider TEXT    NOT NULL,
		feedback          TEXT    NOT NULL DEFAULT '{}',
		created_at        INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS quizzes (
		id              TEXT    PRIMARY KEY,
		title           TEXT    NOT NULL,
		max_attempts    INTEGER NOT NULL CHECK (max_attempts > 0),
		passing_score   INTEGER NOT NULL CHECK (passing_score >= 0),
		is_randomized   INTEGER NOT NULL DEFAULT 0,
		time_limit_secs INTEGER NOT NULL DEFAULT 0,
		created_at      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_questions (
		id             TEXT    PRIMARY KEY,
		quiz_id        TEXT    NOT NULL REFERENCES quizzes (id) ON DELETE CASCADE,
		text           TEXT    NOT NULL,
		type           TEXT    NOT NULL,
		options        TEXT    NOT NULL DEFAULT '[]',
		correct_answer TEXT    NOT NULL,
		points         INTEGER NOT NULL CHECK (points > 0),
		order_index    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id             TEXT    PRIMARY KEY,
		user_id        TEXT    NOT NULL,
		quiz_id        TEXT    NOT NULL REFERENCES quizzes (id),
		attempt_number INTEGER NOT NULL,
		max_score      INTEGER NOT NULL,
		score          INTEGER,
		passed         INTEGER,
		state          TEXT    NOT NULL,
		started_at     INTEGER NOT NULL,
		completed_at   INTEGER,
		UNIQUE (user_id, quiz_id, attempt_number)
	)`,
	`CREATE TABLE IF NOT EXISTS attempt_questions (
		attempt_id  TEXT    NOT NULL REFERENCES quiz_attempts (id) ON DELETE CASCADE,
		question_id TEXT    NOT NULL REFERENCES quiz_questions (id),
		position    INTEGER NOT NULL,
		PRIMARY KEY (attempt_id, question_id)
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_responses (
		attempt_id    TEXT    NOT NULL REFERENCES quiz_attempts (id) ON DELETE CASCADE,
		question_id   TEXT    NOT NULL REFERENCES quiz_questions (id),
		answer        TEXT    NOT NULL,
		is_correct    INTEGER NOT NULL,
		points_earned INTEGER NOT NULL,
		answered_at   INTEGER NOT NULL,
		PRIMARY KEY (attempt_id, question_id)
	)`,

	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at   INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
}
