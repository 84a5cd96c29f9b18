package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"adlaan-backend/config"
	"adlaan-backend/internal/models"
	"adlaan-backend/pkg/logger"

	"github.com/aliyun/alibaba-cloud-sdk-go/services/sts"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Archiver stores a copy of generated content and returns its URL.
type Archiver interface {
	Archive(ctx context.Context, objectKey string, content []byte) (string, error)
}

type STSCredentials struct {
	AccessKeyId     string `json:"accessKeyId"`
	AccessKeySecret string `json:"accessKeySecret"`
	SecurityToken   string `json:"securityToken"`
	Expiration      string `json:"expiration"`
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
}

// OSSArchiver writes generated documents to an OSS bucket. With a role ARN
// configured it uploads with short-lived STS credentials, otherwise with the
// configured access key.
type OSSArchiver struct {
	config *config.Config
}

func NewOSSArchiver(cfg *config.Config) *OSSArchiver {
	return &OSSArchiver{config: cfg}
}

// GetSTSToken assumes the configured role.
func (a *OSSArchiver) GetSTSToken() (*STSCredentials, error) {
	cfg := a.config

	// STS client requires region ID without "oss-" prefix (e.g., "cn-beijing" instead of "oss-cn-beijing")
	stsRegion := cfg.OSSRegion
	if after, ok := strings.CutPrefix(stsRegion, "oss-"); ok {
		stsRegion = after
	}

	client, err := sts.NewClientWithAccessKey(stsRegion, cfg.OSSAccessKeyID, cfg.OSSAccessKeySecret)
	if err != nil {
		return nil, err
	}

	request := sts.CreateAssumeRoleRequest()
	request.Scheme = "https"
	request.RoleArn = cfg.OSSRoleArn
	request.RoleSessionName = "adlaan-archive"
	request.DurationSeconds = "3600"

	response, err := client.AssumeRole(request)
	if err != nil {
		return nil, err
	}

	return &STSCredentials{
		AccessKeyId:     response.Credentials.AccessKeyId,
		AccessKeySecret: response.Credentials.AccessKeySecret,
		SecurityToken:   response.Credentials.SecurityToken,
		Expiration:      response.Credentials.Expiration,
		Region:          cfg.OSSRegion,
		Bucket:          cfg.OSSBucketName,
	}, nil
}

func (a *OSSArchiver) bucket() (*oss.Bucket, error) {
	options := []oss.ClientOption{oss.Timeout(60, 120)}
	keyID, keySecret := a.config.OSSAccessKeyID, a.config.OSSAccessKeySecret

	if a.config.OSSRoleArn != "" {
		creds, err := a.GetSTSToken()
		if err != nil {
			return nil, fmt.Errorf("failed to get STS token: %w", err)
		}
		keyID, keySecret = creds.AccessKeyId, creds.AccessKeySecret
		options = append(options, oss.SecurityToken(creds.SecurityToken))
	}

	client, err := oss.New(a.config.OSSEndpoint, keyID, keySecret, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}
	return client.Bucket(a.config.OSSBucketName)
}

// Archive uploads content under objectKey. A failed upload is retried once
// with fresh credentials.
func (a *OSSArchiver) Archive(ctx context.Context, objectKey string, content []byte) (string, error) {
	var uploadErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		bucket, err := a.bucket()
		if err != nil {
			uploadErr = err
			continue
		}
		uploadErr = bucket.PutObject(objectKey, bytes.NewReader(content),
			oss.ContentType("text/plain; charset=utf-8"))
		if uploadErr == nil {
			return ObjectURL(a.config.OSSEndpoint, a.config.OSSBucketName, objectKey), nil
		}
	}
	return "", fmt.Errorf("upload failed after retry: %w", uploadErr)
}

// ObjectURL builds the public URL of an object.
func ObjectURL(endpoint, bucket, objectKey string) string {
	scheme := "https"
	if before, after, ok := strings.Cut(endpoint, "://"); ok {
		scheme, endpoint = before, after
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, bucket, endpoint, objectKey)
}

// ArchiveObjectKey names the object for a generated document:
// documents/2024/01/<uuid>.txt
func ArchiveObjectKey(now time.Time) string {
	return fmt.Sprintf("documents/%d/%02d/%s.txt", now.Year(), now.Month(), uuid.New().String())
}

// NewArchiveHook copies every generated document to archiver and records the
// resulting URL on the document and in the task output.
func NewArchiveHook(archiver Archiver, docs DocumentStore, log *zap.Logger) AfterExecutionHook {
	if log == nil {
		log = logger.Named("archive")
	}
	return func(ctx context.Context, task *models.Task, result map[string]interface{}) error {
		if task.Kind != models.TaskKindGenerateDocument || task.DocumentID == nil {
			return nil
		}

		doc, err := docs.Get(ctx, task.OrganizationID, *task.DocumentID)
		if err != nil {
			return err
		}
		url, err := archiver.Archive(ctx, ArchiveObjectKey(time.Now()), []byte(doc.Content))
		if err != nil {
			return err
		}
		if err := docs.SetStorageURL(ctx, doc.ID, url); err != nil {
			return err
		}

		result["storage_url"] = url
		log.Info("Archived generated document", zap.Uint("task_id", task.ID), zap.Uint("document_id", doc.ID))
		return nil
	}
}
