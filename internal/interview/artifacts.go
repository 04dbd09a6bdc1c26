package interview

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoreFileArtifact validates and stores an uploaded workbook. Bytes go to
// the blob store under a key scoped by session and artifact id; the
// artifact is recorded only after the write succeeds.
func (s *Service) StoreFileArtifact(sessionID, filename, contentType string, data []byte, description string) (Artifact, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return Artifact{}, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return Artifact{}, fmt.Errorf("%w: unsupported file type %q; upload Excel workbooks, CSV/TSV extracts, or OpenDocument spreadsheets", ErrValidation, ext)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return Artifact{}, fmt.Errorf("%w: file exceeds the maximum allowed size of %d bytes", ErrValidation, s.maxUploadBytes)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	id := uuid.NewString()
	location, err := s.blobs.Put(sessionID+"/"+id+ext, data)
	if err != nil {
		return Artifact{}, fmt.Errorf("storing artifact bytes: %w", err)
	}

	now := time.Now().UTC()
	sess.artifactSeq++
	artifact := Artifact{
		ID:              id,
		Source:          ArtifactFile,
		Filename:        sanitizeFilename(filename),
		ContentType:     contentType,
		SizeBytes:       int64(len(data)),
		UploadedAt:      now,
		Description:     strings.TrimSpace(description),
		storageLocation: location,
		seq:             sess.artifactSeq,
	}
	sess.artifacts[id] = artifact
	sess.updatedAt = now

	s.recordEvent(sessionID, "artifact_stored", map[string]any{
		"artifact_id": id,
		"source":      ArtifactFile,
		"filename":    artifact.Filename,
		"size_bytes":  artifact.SizeBytes,
	})
	s.log.Info("stored workbook artifact",
		"session_id", sessionID,
		"artifact_id", id,
		"filename", artifact.Filename,
		"size_bytes", artifact.SizeBytes,
	)
	return artifact, nil
}

// StoreLinkArtifact records an external spreadsheet link for the session.
func (s *Service) StoreLinkArtifact(sessionID, url, description string) (Artifact, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return Artifact{}, err
	}

	cleaned := strings.TrimSpace(url)
	lower := strings.ToLower(cleaned)
	if cleaned == "" || (!strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")) {
		return Artifact{}, fmt.Errorf("%w: provide a shareable link starting with http:// or https://", ErrValidation)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := time.Now().UTC()
	sess.artifactSeq++
	artifact := Artifact{
		ID:          uuid.NewString(),
		Source:      ArtifactLink,
		UploadedAt:  now,
		Description: strings.TrimSpace(description),
		URL:         cleaned,
		seq:         sess.artifactSeq,
	}
	sess.artifacts[artifact.ID] = artifact
	sess.updatedAt = now

	s.recordEvent(sessionID, "artifact_stored", map[string]any{
		"artifact_id": artifact.ID,
		"source":      ArtifactLink,
	})
	s.log.Info("recorded link artifact", "session_id", sessionID, "artifact_id", artifact.ID)
	return artifact, nil
}

// GetArtifact returns artifact metadata by id.
func (s *Service) GetArtifact(sessionID, artifactID string) (Artifact, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return Artifact{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	artifact, ok := sess.artifacts[artifactID]
	if !ok {
		s.log.Warn("unknown artifact id", "session_id", sessionID, "artifact_id", artifactID)
		return Artifact{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, artifactID)
	}
	return artifact, nil
}

// ListArtifacts returns all artifacts for the session, most recently
// uploaded first.
func (s *Service) ListArtifacts(sessionID string) ([]Artifact, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.sortedArtifacts(), nil
}

// OpenArtifact returns the stored bytes for a file artifact. Links are not
// downloadable; a file whose bytes are gone from the blob store reports
// ErrArtifactNotFound.
func (s *Service) OpenArtifact(sessionID, artifactID string) (Artifact, []byte, error) {
	artifact, err := s.GetArtifact(sessionID, artifactID)
	if err != nil {
		return Artifact{}, nil, err
	}

	if artifact.Source != ArtifactFile || artifact.storageLocation == "" {
		return Artifact{}, nil, fmt.Errorf("%w: artifact is not available for download", ErrValidation)
	}
	if !s.blobs.Exists(artifact.storageLocation) {
		return Artifact{}, nil, fmt.Errorf("%w: stored bytes are missing", ErrArtifactNotFound)
	}

	data, err := s.blobs.Get(artifact.storageLocation)
	if err != nil {
		return Artifact{}, nil, fmt.Errorf("reading artifact bytes: %w", err)
	}
	return artifact, data, nil
}
