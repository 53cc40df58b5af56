// Package store 把统计结果持久化到 SQLite，用于查看历史运行记录。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"toukei/internal/languages"
	"toukei/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound 表示指定 ID 的运行记录不存在。
var ErrRunNotFound = errors.New("run not found")

// Run 是一次统计运行的摘要。
type Run struct {
	ID          string
	ScannedPath string
	CreatedAt   time.Time
	Totals      model.TotalMetrics
}

// RunDetail 是一次运行的完整快照，包含按语言的累计值与函数长度样本。
type RunDetail struct {
	Run
	Languages model.Totals
}

// Store 封装 SQLite 连接。
type Store struct {
	db *sql.DB
}

// Open 打开（必要时创建）数据库文件并建表。
func Open(path string) (*Store, error) {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// 单连接即可，避免写锁竞争。
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scanned_path TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		files INTEGER NOT NULL,
		total INTEGER NOT NULL,
		code INTEGER NOT NULL,
		comment INTEGER NOT NULL,
		blank INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS language_totals (
		run_id TEXT NOT NULL REFERENCES runs(id),
		language TEXT NOT NULL,
		name TEXT NOT NULL,
		files INTEGER NOT NULL,
		total INTEGER NOT NULL,
		code INTEGER NOT NULL,
		comment INTEGER NOT NULL,
		blank INTEGER NOT NULL,
		PRIMARY KEY (run_id, language)
	);

	CREATE TABLE IF NOT EXISTS function_samples (
		run_id TEXT NOT NULL REFERENCES runs(id),
		language TEXT NOT NULL,
		length INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_function_samples_run ON function_samples(run_id, language);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// SaveRun 在一个事务中写入运行摘要、各语言累计值和函数长度样本，返回生成的运行记录。
func (s *Store) SaveRun(ctx context.Context, result model.ScanResult) (Run, error) {
	run := Run{
		ID:          uuid.New().String(),
		ScannedPath: result.ScannedPath,
		CreatedAt:   time.Now().UTC(),
		Totals:      result.Total(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, scanned_path, created_at, files, total, code, comment, blank)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ScannedPath, run.CreatedAt.UnixNano(),
		run.Totals.Files, run.Totals.Total, run.Totals.Code, run.Totals.Comment, run.Totals.Blank,
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	for _, entry := range result.Languages.Sorted() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO language_totals (run_id, language, name, files, total, code, comment, blank)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, string(entry.Language), entry.Name, entry.Files,
			entry.Metrics.Total, entry.Metrics.Code, entry.Metrics.Comment, entry.Metrics.Blank,
		); err != nil {
			return Run{}, fmt.Errorf("insert language %s: %w", entry.Language, err)
		}

		for _, length := range entry.FunctionLengths {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO function_samples (run_id, language, length) VALUES (?, ?, ?)`,
				run.ID, string(entry.Language), length,
			); err != nil {
				return Run{}, fmt.Errorf("insert function sample: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// Runs 返回全部运行摘要，最新的在前。
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scanned_path, created_at, files, total, code, comment, blank
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LoadRun 读取一次运行的完整快照。
func (s *Store) LoadRun(ctx context.Context, id string) (RunDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scanned_path, created_at, files, total, code, comment, blank
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunDetail{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunDetail{}, err
	}

	detail := RunDetail{Run: run, Languages: model.Totals{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT language, name, files, total, code, comment, blank
		FROM language_totals WHERE run_id = ?`, id)
	if err != nil {
		return RunDetail{}, fmt.Errorf("query language totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, name string
		entry := &model.LanguageTotals{}
		if err := rows.Scan(&key, &name, &entry.Files,
			&entry.Metrics.Total, &entry.Metrics.Code, &entry.Metrics.Comment, &entry.Metrics.Blank); err != nil {
			return RunDetail{}, fmt.Errorf("scan language totals: %w", err)
		}
		entry.Language = languages.Key(key)
		entry.Name = name
		detail.Languages[entry.Language] = entry
	}
	if err := rows.Err(); err != nil {
		return RunDetail{}, fmt.Errorf("iterate language totals: %w", err)
	}

	if err := s.loadSamples(ctx, id, detail.Languages); err != nil {
		return RunDetail{}, err
	}
	return detail, nil
}

func (s *Store) loadSamples(ctx context.Context, id string, totals model.Totals) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT language, length FROM function_samples WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return fmt.Errorf("query function samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var length int
		if err := rows.Scan(&key, &length); err != nil {
			return fmt.Errorf("scan function sample: %w", err)
		}
		if entry, ok := totals[languages.Key(key)]; ok {
			entry.FunctionLengths = append(entry.FunctionLengths, length)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate function samples: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt int64
	if err := row.Scan(&run.ID, &run.ScannedPath, &createdAt,
		&run.Totals.Files, &run.Totals.Total, &run.Totals.Code, &run.Totals.Comment, &run.Totals.Blank); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return run, nil
}
