package sqlite

import "database/sql"

// schema sets up the database tables. It runs on startup so every table exists.
// Amounts are TEXT decimals; timestamps are unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS splits (
    id TEXT PRIMARY KEY,
    transaction_id TEXT NOT NULL,
    trip_id TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    currency TEXT NOT NULL,
    split_type TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    payer_name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_participants (
    id TEXT PRIMARY KEY,
    split_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    share_amount TEXT NOT NULL,
    share_percentage TEXT NOT NULL,
    is_paid INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER,
    UNIQUE (split_id, member_id),
    FOREIGN KEY (split_id) REFERENCES splits(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS split_tags (
    split_id TEXT NOT NULL,
    tag_id TEXT NOT NULL,
    PRIMARY KEY (split_id, tag_id),
    FOREIGN KEY (split_id) REFERENCES splits(id) ON DELETE CASCADE,
    FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    from_member_id TEXT NOT NULL,
    from_member_name TEXT NOT NULL,
    to_member_id TEXT NOT NULL,
    to_member_name TEXT NOT NULL,
    amount TEXT NOT NULL,
    currency TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    settled_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_splits_trip_id ON splits(trip_id);
CREATE INDEX IF NOT EXISTS idx_split_participants_split_id ON split_participants(split_id);
CREATE INDEX IF NOT EXISTS idx_split_tags_split_id ON split_tags(split_id);
CREATE INDEX IF NOT EXISTS idx_settlements_trip_id ON settlements(trip_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
