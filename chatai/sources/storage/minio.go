package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"chatai/chatai/config"
	"chatai/chatai/sources/psql/models"
)

// ArchiveClient exports finished chat transcripts to object storage.
type ArchiveClient struct {
	client *minio.Client
	bucket string
}

type archivedTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type transcriptObject struct {
	UserID     int            `json:"user_id"`
	SessionID  string         `json:"session_id"`
	Turns      []archivedTurn `json:"turns"`
	ArchivedAt time.Time      `json:"archived_at"`
}

// NewArchiveClient connects to object storage and ensures the bucket
// exists. Returns (nil, nil) when no endpoint is configured, which
// disables archiving without failing startup.
func NewArchiveClient(ctx context.Context, cfg config.Config) (*ArchiveClient, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &ArchiveClient{client: client, bucket: cfg.MinIOBucket}, nil
}

// ArchiveTranscript uploads a session's messages as a JSON object and
// returns the object key.
func (a *ArchiveClient) ArchiveTranscript(ctx context.Context, userID int, sessionID string, msgs []models.ChatMessage) (string, error) {
	turns := make([]archivedTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, archivedTurn{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}

	obj := transcriptObject{
		UserID:     userID,
		SessionID:  sessionID,
		Turns:      turns,
		ArchivedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	key := path.Join("transcripts", fmt.Sprintf("%d", userID), sessionID+".json")
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}
	return key, nil
}
