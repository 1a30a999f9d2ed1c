package handlers

import (
	"encoding/json"
	"net/http"

	"athlete-connect-backend/internal/middleware"
	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// VideoHandler handles highlight video uploads
type VideoHandler struct {
	videoService *services.VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// UploadVideoRequest represents a request to add a video to the gallery.
// Filename requests a pre-signed upload URL when video storage is configured.
type UploadVideoRequest struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	ThumbnailImage []byte `json:"thumbnail_image,omitempty"`
	Filename       string `json:"filename"`
	ContentType    string `json:"content_type"`
}

// UploadVideoResponse carries the stored video and, if requested, where to upload it
type UploadVideoResponse struct {
	Video  *models.Video                 `json:"video"`
	Upload *services.VideoUploadResponse `json:"upload,omitempty"`
}

// UploadVideo handles POST /api/v1/videos
func (h *VideoHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSession(ctx)

	var req UploadVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, ok := session.CurrentUser()
	if !ok {
		respondError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	video := models.Video{
		Title:          req.Title,
		URL:            req.URL,
		ThumbnailImage: req.ThumbnailImage,
	}

	var upload *services.VideoUploadResponse
	if req.Filename != "" && h.videoService.Enabled() {
		var err error
		upload, err = h.videoService.PresignUpload(ctx, user.ID, req.Filename, req.ContentType)
		if err != nil {
			log.Error().
				Err(err).
				Str("user_id", user.ID).
				Str("filename", req.Filename).
				Msg("Failed to generate pre-signed URL")
			respondError(w, "Failed to prepare upload", http.StatusInternalServerError)
			return
		}
		video.ID = upload.VideoID
		video.URL = upload.VideoURL
	}

	stored, err := session.UploadVideo(video)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to upload video")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("video_id", stored.ID).
		Msg("Video added")

	respondJSON(w, http.StatusCreated, UploadVideoResponse{Video: stored, Upload: upload})
}
