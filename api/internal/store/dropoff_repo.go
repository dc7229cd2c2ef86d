// Package store holds the Postgres-backed drop-off directory: per
// jurisdiction and special-handling category, where an item can actually
// be taken. Classifications themselves are never persisted.
package store

import (
	"context"
	"database/sql"
	"time"
)

// Schema:
//
//	create table dropoff_links (
//	    jurisdiction_id text not null,
//	    category        text not null,
//	    url             text not null,
//	    position        int  not null default 0,
//	    primary key (jurisdiction_id, category, url)
//	);
type DropoffRepo struct{ DB *sql.DB }

func NewDropoffRepo(db *sql.DB) *DropoffRepo { return &DropoffRepo{DB: db} }

// Links returns the ordered drop-off URLs for a special-handling category.
// No rows is not an error; the caller just ships empty links.
func (r *DropoffRepo) Links(ctx context.Context, jurisdictionID, category string) ([]string, error) {
	const q = `
select url
from dropoff_links
where jurisdiction_id = $1 and category = $2
order by position, url`
	rows, err := r.DB.QueryContext(ctx, q, jurisdictionID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		links = append(links, u)
	}
	return links, rows.Err()
}

// Ping verifies connectivity with a short deadline; used by /healthz.
func (r *DropoffRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.DB.PingContext(ctx)
}
