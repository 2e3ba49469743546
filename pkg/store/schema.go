package store

type migration struct {
	version    int
	statements []string
}

// migrations are shared by the SQLite and PostgreSQL backends; both accept
// this dialect.
var migrations = []migration{
	{
		version: 1,
		statements: []string{`
		CREATE TABLE IF NOT EXISTS sessions (
			id_hash      TEXT NOT NULL PRIMARY KEY CHECK(length(id_hash) = 64),
			user_id      TEXT NOT NULL DEFAULT '',
			email        TEXT NOT NULL CHECK(length(email) > 0),
			name         TEXT NOT NULL DEFAULT '',
			sealed_token TEXT NOT NULL,
			created_at   TEXT NOT NULL,
			expires_at   TEXT NOT NULL
		)`},
	},
	{
		version: 2,
		statements: []string{
			"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)",
			"CREATE INDEX IF NOT EXISTS idx_sessions_email ON sessions(email)",
		},
	},
}
