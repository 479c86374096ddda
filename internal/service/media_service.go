package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mentorhub_backend/internal/model"
	"mentorhub_backend/internal/repository"
	"mentorhub_backend/internal/util"
	"mentorhub_backend/pkg/logger"

	"go.uber.org/zap"
)

// MediaService ingests mentor video uploads into the object store and
// the catalog's video asset table. Duration and format come from an
// ffprobe pass over the uploaded file, so the playback engine can
// trust VideoAsset.Duration.
type MediaService struct {
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
}

func NewMediaService(courseRepo *repository.CourseRepository, storage *StorageService) *MediaService {
	return &MediaService{
		CourseRepo: courseRepo,
		Storage:    storage,
	}
}

func (s *MediaService) UploadVideo(ctx context.Context, file *multipart.FileHeader, title, description, uploaderID string) (*model.VideoAsset, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return nil, util.ErrInvalidVideoExt
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream}); err != nil {
		return nil, fmt.Errorf("invalid video content: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	// Stage locally for probing before the object store upload.
	tmpFile, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, src); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("probing video: %v", err)
	}

	stamp := time.Now().Format("20060102150405")
	objectKey := "videos/" + stamp + "_" + util.GenerateRandomString(6) + ext

	if _, err := s.Storage.UploadFile(ctx, objectKey, tmpPath, file.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	thumbnailURL := s.generateThumbnail(ctx, tmpPath, stamp)

	asset := &model.VideoAsset{
		Title:       title,
		Description: description,
		Thumbnail:   thumbnailURL,
		Duration:    info.Duration,
		ObjectKey:   objectKey,
		Format:      info.Format,
		Size:        info.Size,
		UploaderID:  uploaderID,
	}
	if err := s.CourseRepo.CreateVideoAsset(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// generateThumbnail is best-effort: an asset without a thumbnail is
// still playable.
func (s *MediaService) generateThumbnail(ctx context.Context, videoPath, stamp string) string {
	thumbPath := filepath.Join(os.TempDir(), "thumb_"+stamp+".jpg")
	defer os.Remove(thumbPath)

	if err := util.GenerateThumbnail(videoPath, thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("thumbnail generation failed", zap.Error(err))
		return ""
	}

	key := "thumbnails/" + stamp + "_" + util.GenerateRandomString(6) + ".jpg"
	url, err := s.Storage.UploadFile(ctx, key, thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("thumbnail upload failed", zap.Error(err))
		return ""
	}
	return url
}

// PlaybackURL resolves a signed playback locator for a video asset,
// applying course visibility through the access evaluator.
func (s *MediaService) PlaybackURL(ctx context.Context, viewer model.Viewer, access *AccessService, assetID string) (string, error) {
	asset, course, err := s.CourseRepo.FindVideoAssetCourse(assetID)
	if err != nil {
		return "", util.ErrVideoNotFound
	}

	// Unattached assets are only reachable by their uploader or an
	// admin.
	if course == nil {
		if asset.UploaderID != viewer.ID && !viewer.IsAdmin() {
			return "", util.ErrAccessDenied
		}
	} else if !access.CanAccess(viewer, course).Playable {
		return "", util.ErrAccessDenied
	}

	return s.Storage.SignedVideoURL(ctx, asset.ObjectKey)
}
