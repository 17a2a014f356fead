package postgres

// BookingsSchema creates the tables owned by the bookings service.
var BookingsSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            movie_id BIGINT NOT NULL,
            date DATE NOT NULL,
            reward_status TEXT NOT NULL DEFAULT 'PENDING',
            reward_retryable BOOLEAN NOT NULL DEFAULT FALSE,
            reward_attempts INTEGER NOT NULL DEFAULT 0,
            last_attempt_at TIMESTAMPTZ,
            next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            reward_error TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_due ON bookings(next_attempt_at)
            WHERE reward_status = 'PENDING' OR (reward_status = 'FAILED' AND reward_retryable)`,
}

// RewardsSchema creates the reward ledger and its credit records.
var RewardsSchema = []string{
	`CREATE TABLE IF NOT EXISTS rewards (
            user_id BIGINT PRIMARY KEY,
            score BIGINT NOT NULL DEFAULT 0 CHECK (score >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS reward_credits (
            user_id BIGINT NOT NULL REFERENCES rewards(user_id),
            idempotency_key TEXT NOT NULL,
            amount BIGINT NOT NULL,
            score_after BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, idempotency_key)
        )`,
}

// UsersSchema creates the users table.
var UsersSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
}
