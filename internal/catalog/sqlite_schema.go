package catalog

// sqliteSchema mirrors db/migrations for the embedded store.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS book (
	id             TEXT PRIMARY KEY NOT NULL,
	title          TEXT NOT NULL,
	subtitle       TEXT,
	isbn           TEXT,
	isbn13         TEXT,
	synopsis       TEXT NOT NULL DEFAULT '',
	cover_url      TEXT NOT NULL DEFAULT '',
	publisher      TEXT NOT NULL DEFAULT '',
	page_count     INTEGER,
	language       TEXT NOT NULL DEFAULT '',
	date_published TEXT NOT NULL DEFAULT '',
	title_long     TEXT NOT NULL DEFAULT '',
	overview       TEXT NOT NULL DEFAULT '',
	excerpt        TEXT NOT NULL DEFAULT '',
	edition        TEXT NOT NULL DEFAULT '',
	binding        TEXT NOT NULL DEFAULT '',
	price          TEXT NOT NULL DEFAULT '',
	dimensions     TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS book_isbn13_key ON book(isbn13) WHERE isbn13 IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS book_isbn_key ON book(isbn) WHERE isbn IS NOT NULL;

CREATE TABLE IF NOT EXISTS author (
	id   TEXT PRIMARY KEY NOT NULL,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS genre (
	id        TEXT PRIMARY KEY NOT NULL,
	name      TEXT NOT NULL UNIQUE,
	parent_id TEXT REFERENCES genre(id)
);

CREATE TABLE IF NOT EXISTS book_author (
	book_id   TEXT NOT NULL REFERENCES book(id),
	author_id TEXT NOT NULL REFERENCES author(id),
	position  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (book_id, author_id)
);

CREATE TABLE IF NOT EXISTS book_genre (
	book_id  TEXT NOT NULL REFERENCES book(id),
	genre_id TEXT NOT NULL REFERENCES genre(id),
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (book_id, genre_id)
);

CREATE INDEX IF NOT EXISTS idx_book_author_author ON book_author(author_id);
CREATE INDEX IF NOT EXISTS idx_book_genre_genre ON book_genre(genre_id);
`
