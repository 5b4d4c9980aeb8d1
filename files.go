package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound means no record matched the caller's predicate. Records owned
// by another user produce the same error as records that do not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries the client-facing message for a rejected upload.
// Only the first violated rule is reported.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

const listPageSize = 20

// CreateFileRequest is the validated upload body. Data is base64 and only
// required for non-folder types.
type CreateFileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID int64  `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// FileService orchestrates validation, the blob/metadata dual write,
// listing and the visibility toggle.
type FileService struct {
	meta  *MetadataStore
	blobs *Storage
	jobs  *Dispatcher
}

func NewFileService(meta *MetadataStore, blobs *Storage, jobs *Dispatcher) *FileService {
	return &FileService{meta: meta, blobs: blobs, jobs: jobs}
}

// Create validates the request, writes the blob for non-folder types, then
// inserts the metadata record. The blob write always precedes the insert:
// a failed blob write leaves no record, a failed insert can only orphan a
// blob, never the reverse. Image uploads enqueue a post-processing job after
// the insert; enqueue failure never reverses the upload.
func (s *FileService) Create(userID int64, req CreateFileRequest) (*FileRecord, error) {
	if req.Name == "" {
		return nil, &ValidationError{Msg: "Missing name"}
	}
	switch req.Type {
	case FileTypeFile, FileTypeImage, FileTypeFolder:
	default:
		return nil, &ValidationError{Msg: "Missing type"}
	}
	if req.Data == "" && req.Type != FileTypeFolder {
		return nil, &ValidationError{Msg: "Missing data"}
	}
	if req.ParentID != RootParentID {
		parent, err := s.meta.GetByID(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("lookup parent: %w", err)
		}
		if parent == nil {
			return nil, &ValidationError{Msg: "Parent not found"}
		}
		if parent.Type != FileTypeFolder {
			return nil, &ValidationError{Msg: "Parent is not a folder"}
		}
	}

	rec := &FileRecord{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}

	if req.Type != FileTypeFolder {
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
		path, err := s.blobs.Write(data)
		if err != nil {
			return nil, fmt.Errorf("write blob: %w", err)
		}
		rec.LocalPath = path
	}

	id, err := s.meta.Insert(rec)
	if err != nil {
		return nil, fmt.Errorf("insert metadata: %w", err)
	}
	rec.ID = id

	if rec.Type == FileTypeImage {
		s.jobs.Enqueue(Job{Type: JobImage, FileID: rec.ID, UserID: userID})
	}

	return rec, nil
}

// GetByID fetches one of the caller's records. A malformed id is a plain
// miss, same as an id owned by someone else.
func (s *FileService) GetByID(userID int64, fileID string) (*FileRecord, error) {
	id, err := strconv.ParseInt(fileID, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	rec, err := s.meta.GetByOwner(id, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// ListChildren pages through the caller's records under a parent folder.
// A malformed, missing or non-folder parent yields an empty list rather
// than an error; page values that do not parse clamp to 0.
func (s *FileService) ListChildren(userID int64, parentIDRaw, pageRaw string) ([]FileRecord, error) {
	parentID := RootParentID
	if parentIDRaw != "" && parentIDRaw != "0" {
		id, err := strconv.ParseInt(parentIDRaw, 10, 64)
		if err != nil {
			return []FileRecord{}, nil
		}
		folder, err := s.meta.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("lookup folder: %w", err)
		}
		if folder == nil || folder.Type != FileTypeFolder {
			return []FileRecord{}, nil
		}
		parentID = id
	}

	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 0 {
		page = 0
	}

	return s.meta.Children(userID, parentID, page, listPageSize)
}

// SetPublic flips the visibility flag on one of the caller's records and
// returns the post-update row.
func (s *FileService) SetPublic(userID int64, fileID string, isPublic bool) (*FileRecord, error) {
	id, err := strconv.ParseInt(fileID, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	rec, err := s.meta.SetPublic(id, userID, isPublic)
	if err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Data returns the blob content for a record that is public or owned by the
// caller (userID 0 means anonymous). Folders have no content.
func (s *FileService) Data(userID int64, fileID string) ([]byte, error) {
	id, err := strconv.ParseInt(fileID, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	rec, err := s.meta.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if !rec.IsPublic && rec.UserID != userID {
		return nil, ErrNotFound
	}
	if rec.Type == FileTypeFolder {
		return nil, &ValidationError{Msg: "A folder doesn't have content"}
	}

	data, err := s.blobs.Read(rec.LocalPath)
	if err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}
