package store

const schema = `
CREATE TABLE IF NOT EXISTS productions (
    id         TEXT PRIMARY KEY,
    slug       TEXT NOT NULL UNIQUE,
    title      TEXT NOT NULL,
    venue      TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'running',
    opened_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_productions_status ON productions(status);

CREATE TABLE IF NOT EXISTS reviews (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    production_id TEXT NOT NULL REFERENCES productions(id),
    source        TEXT NOT NULL,
    critic        TEXT NOT NULL DEFAULT '',
    score         REAL,
    rating        TEXT NOT NULL DEFAULT '',
    designation   TEXT NOT NULL DEFAULT '',
    excerpt       TEXT NOT NULL DEFAULT '',
    published_at  DATETIME NOT NULL,
    collected_at  DATETIME NOT NULL,
    UNIQUE(production_id, source, critic)
);

CREATE INDEX IF NOT EXISTS idx_reviews_production ON reviews(production_id);

CREATE TABLE IF NOT EXISTS audience_ratings (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    production_id TEXT NOT NULL REFERENCES productions(id),
    platform      TEXT NOT NULL,
    average       REAL NOT NULL,
    max_scale     REAL NOT NULL,
    samples       INTEGER NOT NULL DEFAULT 0,
    collected_at  DATETIME NOT NULL,
    UNIQUE(production_id, platform)
);

CREATE INDEX IF NOT EXISTS idx_audience_production ON audience_ratings(production_id);

CREATE TABLE IF NOT EXISTS buzz_threads (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    production_id TEXT NOT NULL REFERENCES productions(id),
    platform      TEXT NOT NULL,
    external_id   TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    upvotes       INTEGER NOT NULL DEFAULT 0,
    comments      INTEGER NOT NULL DEFAULT 0,
    sentiment     TEXT NOT NULL DEFAULT 'mixed',
    posted_at     DATETIME NOT NULL,
    collected_at  DATETIME NOT NULL,
    UNIQUE(platform, external_id)
);

CREATE INDEX IF NOT EXISTS idx_buzz_production ON buzz_threads(production_id);
CREATE INDEX IF NOT EXISTS idx_buzz_posted ON buzz_threads(posted_at);

CREATE TABLE IF NOT EXISTS scorecards (
    production_id TEXT PRIMARY KEY REFERENCES productions(id),
    payload       TEXT NOT NULL,
    composite     REAL,
    confidence    TEXT NOT NULL DEFAULT 'low',
    methodology   TEXT NOT NULL DEFAULT '',
    computed_at   DATETIME NOT NULL
);
`
