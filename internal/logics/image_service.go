package logics

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"time"

	// Decoders for the upload formats we accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"gallery-server/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageService stores photo bitmaps in S3 and their metadata in Postgres.
type ImageService struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	db            *gorm.DB
	logger        *zap.Logger
}

func NewImageService(s3Client *s3.Client, bucketName string, db *gorm.DB, logger *zap.Logger) *ImageService {
	return &ImageService{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		db:            db,
		logger:        logger,
	}
}

// UploadParams carries the mutable fields of an upload request.
type UploadParams struct {
	Name        string
	Description string
	GroupIDs    []uint
}

// Upload stores the bitmap in S3 and creates the Image record, extracting
// width/height from the file header. The record falls back to the original
// filename when no name is given.
func (is *ImageService) Upload(ctx context.Context, ownerID string, file multipart.File, header *multipart.FileHeader, params UploadParams) (*models.Image, error) {
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	width, height, err := bitmapDimensions(data)
	if err != nil {
		return nil, fmt.Errorf("uploaded file is not a supported image: %w", err)
	}

	imageID := uuid.New()
	objectKey := fmt.Sprintf("images/%s/%s", ownerID, imageID.String())

	_, err = is.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(is.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(header.Header.Get("Content-Type")),
		ACL:         s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image to s3: %w", err)
	}

	name := params.Name
	if name == "" {
		name = header.Filename
	}

	record := models.Image{
		ID:          imageID,
		Name:        name,
		Description: params.Description,
		ObjectKey:   objectKey,
		ContentType: header.Header.Get("Content-Type"),
		Width:       width,
		Height:      height,
		Size:        int64(len(data)),
		OwnerID:     ownerID,
	}

	err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return is.replaceGroups(tx, &record, params.GroupIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}

	return &record, nil
}

// List returns all images, newest upload first, with their groups.
func (is *ImageService) List(ctx context.Context) ([]models.Image, error) {
	var images []models.Image
	if err := is.db.WithContext(ctx).Preload("Groups").Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// Get returns one image record with its groups.
func (is *ImageService) Get(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	var record models.Image
	if err := is.db.WithContext(ctx).Preload("Groups").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DownloadURL generates a presigned URL for the image object.
func (is *ImageService) DownloadURL(ctx context.Context, record *models.Image) (string, error) {
	presignResult, err := is.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(is.bucketName),
		Key:    aws.String(record.ObjectKey),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignResult.URL, nil
}

// Update edits an image's name, description, and group assignment.
func (is *ImageService) Update(ctx context.Context, id uuid.UUID, params UploadParams) (*models.Image, error) {
	var record models.Image
	if err := is.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}

	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":        params.Name,
			"description": params.Description,
		}
		if err := tx.Model(&record).Updates(updates).Error; err != nil {
			return err
		}
		return is.replaceGroups(tx, &record, params.GroupIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update image: %w", err)
	}

	return is.Get(ctx, id)
}

// Delete removes the S3 object first, then the record, so a failed delete
// never leaves a record pointing at nothing.
func (is *ImageService) Delete(ctx context.Context, id uuid.UUID) error {
	var record models.Image
	if err := is.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return err
	}

	_, err := is.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(is.bucketName),
		Key:    aws.String(record.ObjectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from s3: %w", err)
	}

	if err := is.db.WithContext(ctx).Select("Groups").Delete(&record).Error; err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}
	return nil
}

func (is *ImageService) replaceGroups(tx *gorm.DB, record *models.Image, groupIDs []uint) error {
	if groupIDs == nil {
		return nil
	}
	var groups []models.Group
	if len(groupIDs) > 0 {
		if err := tx.Find(&groups, groupIDs).Error; err != nil {
			return err
		}
		if len(groups) != len(groupIDs) {
			return fmt.Errorf("unknown group in %v", groupIDs)
		}
	}
	return tx.Model(record).Association("Groups").Replace(groups)
}

// bitmapDimensions reads width and height from the image header without
// decoding the full bitmap.
func bitmapDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
