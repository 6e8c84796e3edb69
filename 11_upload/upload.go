package upload

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	assemble "shortform-studio/09_assemble"
	seo "shortform-studio/10_seo"
	"shortform-studio/config"
	"shortform-studio/types"
)

// Key is the artifact this collaborator writes: the public watch URL of the
// uploaded video.
const Key = "youtube_url"

// Uploader pushes the assembled video to YouTube through the Data API v3.
// Credentials come from YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET and
// YOUTUBE_REFRESH_TOKEN.
type Uploader struct {
	cfg config.UploadConfig
	log zerolog.Logger
}

func NewUploader(cfg config.UploadConfig, log zerolog.Logger) *Uploader {
	return &Uploader{cfg: cfg, log: log.With().Str("component", "upload").Logger()}
}

func (u *Uploader) Name() string      { return "YouTubeUploader" }
func (u *Uploader) OutputKey() string { return Key }

func (u *Uploader) Run(ctx context.Context, sess *types.WorkflowSession) error {
	videoFile, ok := sess.Artifacts.Text(assemble.Key)
	if !ok {
		return fmt.Errorf("upload: artifact %q not found", assemble.Key)
	}

	var content seo.Output
	if err := sess.Artifacts.Get(seo.Key, &content); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	client, err := u.oauthClient(ctx)
	if err != nil {
		return fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("youtube service: %w", err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                content.VideoTitle,
			Description:          content.VideoDescription,
			CategoryId:           u.cfg.CategoryID,
			DefaultLanguage:      u.cfg.DefaultLanguage,
			DefaultAudioLanguage: u.cfg.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           u.cfg.Visibility,
			SelfDeclaredMadeForKids: u.cfg.MadeForKids,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	u.log.Info().Str("title", content.VideoTitle).Str("file", videoFile).Msg("uploading to youtube")

	uploaded, err := svc.Videos.Insert([]string{"snippet", "status"}, video).NotifySubscribers(u.cfg.NotifySubscribers).Media(f).Do()
	if err != nil {
		return fmt.Errorf("youtube upload: %w", err)
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	u.log.Info().Str("url", videoURL).Msg("upload complete")
	return sess.Artifacts.SetText(Key, videoURL)
}

func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}
