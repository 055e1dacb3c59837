package tracing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoRecording is returned when a database does not hold the tables of a
// DBTracer.
var ErrNoRecording = errors.New("no recording found")

const (
	translationColumns = "ID, Seq, Access, VAddr, PAddr, Page, Frame, " +
		"TLBHit, PageFault, StaleTLBEntry, Evicted, Victim"
	summaryColumns = "Simulation, Policy, Accesses, TLBHits, TLBMisses, " +
		"PageFaults, Evictions"
)

// A TranslationFilter selects rows of the translations table. The zero value
// selects every row.
type TranslationFilter struct {
	PageFaultsOnly bool
	StaleOnly      bool

	// Limit caps the number of rows returned. 0 means no limit.
	Limit int
}

func (f TranslationFilter) where() string {
	var conds []string

	if f.PageFaultsOnly {
		conds = append(conds, "PageFault")
	}

	if f.StaleOnly {
		conds = append(conds, "StaleTLBEntry")
	}

	if len(conds) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(conds, " AND ")
}

// DBReader reads back the runs recorded by a DBTracer.
type DBReader struct {
	*sql.DB
}

// OpenDBReader opens a database file written by a DBTracer.
func OpenDBReader(filename string) (*DBReader, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRecording, err)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	return NewDBReaderWithDB(db), nil
}

// NewDBReaderWithDB creates a DBReader on an open database.
func NewDBReaderWithDB(db *sql.DB) *DBReader {
	return &DBReader{DB: db}
}

// Summaries returns the summary of every recorded run, oldest first.
func (r *DBReader) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := r.QueryContext(ctx,
		"SELECT "+summaryColumns+" FROM "+summaryTable+" ORDER BY rowid")
	if err != nil {
		return nil, tableErr(err)
	}
	defer rows.Close()

	var summaries []Summary

	for rows.Next() {
		var s Summary

		err := rows.Scan(&s.Simulation, &s.Policy, &s.Accesses,
			&s.TLBHits, &s.TLBMisses, &s.PageFaults, &s.Evictions)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Translations returns the translations selected by f in reference order,
// together with the number of rows f selects before the limit applies.
func (r *DBReader) Translations(
	ctx context.Context,
	f TranslationFilter,
) ([]TranslationRecord, int, error) {
	where := f.where()

	var total int

	err := r.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+translationTable+where).Scan(&total)
	if err != nil {
		return nil, 0, tableErr(err)
	}

	query := "SELECT " + translationColumns + " FROM " + translationTable +
		where + " ORDER BY Seq"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []TranslationRecord

	for rows.Next() {
		var t TranslationRecord

		err := rows.Scan(&t.ID, &t.Seq, &t.Access, &t.VAddr, &t.PAddr,
			&t.Page, &t.Frame, &t.TLBHit, &t.PageFault, &t.StaleTLBEntry,
			&t.Evicted, &t.Victim)
		if err != nil {
			return nil, 0, err
		}

		records = append(records, t)
	}

	return records, total, rows.Err()
}

func tableErr(err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", ErrNoRecording, err)
	}

	return err
}
