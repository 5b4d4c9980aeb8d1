package main

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	FileTypeFile   = "file"
	FileTypeImage  = "image"
	FileTypeFolder = "folder"
)

// RootParentID marks a record with no parent folder.
const RootParentID int64 = 0

// FileRecord is the metadata row for a file, image or folder. LocalPath is
// empty for folders and never leaves the process in API responses.
type FileRecord struct {
	ID        int64
	UserID    int64
	Name      string
	Type      string
	ParentID  int64
	IsPublic  bool
	LocalPath string
}

// MetadataStore handles file metadata persistence.
type MetadataStore struct {
	db *sql.DB
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

const fileColumns = "id, user_id, name, type, parent_id, is_public, local_path"

// Insert stores the record and returns its assigned id. Ids are rowids with
// AUTOINCREMENT, so they are never reused.
func (s *MetadataStore) Insert(rec *FileRecord) (int64, error) {
	var localPath any
	if rec.LocalPath != "" {
		localPath = rec.LocalPath
	}

	result, err := s.db.Exec(
		"INSERT INTO files (user_id, name, type, parent_id, is_public, local_path) VALUES (?, ?, ?, ?, ?, ?)",
		rec.UserID, rec.Name, rec.Type, rec.ParentID, rec.IsPublic, localPath,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}

	return result.LastInsertId()
}

func (s *MetadataStore) GetByID(id int64) (*FileRecord, error) {
	return s.getOne("SELECT "+fileColumns+" FROM files WHERE id = ?", id)
}

// GetByOwner fetches a record only when it belongs to userID. A record owned
// by someone else is a plain miss, so existence cannot be probed.
func (s *MetadataStore) GetByOwner(id, userID int64) (*FileRecord, error) {
	return s.getOne("SELECT "+fileColumns+" FROM files WHERE id = ? AND user_id = ?", id, userID)
}

// Children returns the caller's records under parentID in insertion order,
// one fixed-size page at a time.
func (s *MetadataStore) Children(userID, parentID int64, page, pageSize int) ([]FileRecord, error) {
	rows, err := s.db.Query(
		"SELECT "+fileColumns+" FROM files WHERE user_id = ? AND parent_id = ? ORDER BY id LIMIT ? OFFSET ?",
		userID, parentID, pageSize, page*pageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	records := []FileRecord{}
	for rows.Next() {
		rec, err := scanFile(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// SetPublic updates the visibility flag on the caller's record and returns
// the post-update row, or (nil, nil) when no owned record matches.
func (s *MetadataStore) SetPublic(id, userID int64, isPublic bool) (*FileRecord, error) {
	result, err := s.db.Exec(
		"UPDATE files SET is_public = ? WHERE id = ? AND user_id = ?",
		isPublic, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update visibility: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	return s.GetByOwner(id, userID)
}

func (s *MetadataStore) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&count)
	return count, err
}

func (s *MetadataStore) getOne(query string, args ...any) (*FileRecord, error) {
	rec, err := scanFile(s.db.QueryRow(query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func scanFile(scan func(...any) error) (*FileRecord, error) {
	var rec FileRecord
	var localPath sql.NullString
	err := scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Type, &rec.ParentID, &rec.IsPublic, &localPath)
	if err != nil {
		return nil, err
	}
	rec.LocalPath = localPath.String
	return &rec, nil
}
