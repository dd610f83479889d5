package database

import (
	"database/sql"
	"fmt"
)

// Schema mirrors the document-store layout of the original data model:
// participant and member lists are denormalized into TEXT[] columns for
// containment queries, with the full structured entries kept as JSONB.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid             TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	first_name      TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	profile_pic_url TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS groups (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	created_by_uid TEXT NOT NULL,
	members        JSONB NOT NULL DEFAULT '[]',
	member_uids    TEXT[] NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS groups_member_uids ON groups USING GIN (member_uids);

CREATE TABLE IF NOT EXISTS expenses (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	total_amount     DOUBLE PRECISION NOT NULL,
	paid_by_uid      TEXT NOT NULL,
	split_type       TEXT NOT NULL,
	participants     JSONB NOT NULL DEFAULT '[]',
	participant_uids TEXT[] NOT NULL DEFAULT '{}',
	group_id         TEXT,
	created_by_uid   TEXT NOT NULL,
	notes            TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	expense_date     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS expenses_participant_uids ON expenses USING GIN (participant_uids);

CREATE TABLE IF NOT EXISTS settlements (
	id              TEXT PRIMARY KEY,
	paid_by_uid     TEXT NOT NULL,
	paid_to_uid     TEXT NOT NULL,
	amount          DOUBLE PRECISION NOT NULL,
	group_id        TEXT,
	method          TEXT NOT NULL DEFAULT 'cash',
	notes           TEXT NOT NULL DEFAULT '',
	recorded_by_uid TEXT NOT NULL,
	settlement_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS settlements_group_id ON settlements(group_id);
CREATE INDEX IF NOT EXISTS settlements_paid_by ON settlements(paid_by_uid);
CREATE INDEX IF NOT EXISTS settlements_paid_to ON settlements(paid_to_uid);

CREATE TABLE IF NOT EXISTS notifications (
	id                  TEXT PRIMARY KEY,
	recipient_uid       TEXT NOT NULL,
	message             TEXT NOT NULL,
	is_read             BOOLEAN NOT NULL DEFAULT FALSE,
	related_entity_type TEXT,
	related_entity_id   TEXT,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS notifications_recipient ON notifications(recipient_uid, is_read);
`

// EnsureSchema creates all tables and indexes if they do not already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
