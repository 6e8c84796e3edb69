package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	theme "shortform-studio/01_theme"
	research "shortform-studio/02_research"
	script "shortform-studio/03_script"
	scenes "shortform-studio/04_scenes"
	prompts "shortform-studio/05_prompts"
	voiceover "shortform-studio/06_voiceover"
	images "shortform-studio/07_images"
	videos "shortform-studio/08_videos"
	assemble "shortform-studio/09_assemble"
	seo "shortform-studio/10_seo"
	upload "shortform-studio/11_upload"
	"shortform-studio/config"
	"shortform-studio/llm"
	"shortform-studio/store"
	"shortform-studio/types"
	"shortform-studio/workflow"
)

var sessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the interactive video creation workflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), cfg, log)
	},
}

func init() {
	chatCmd.Flags().StringVar(&sessionID, "session", "", "session id to resume (defaults to a new one)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	controller := workflow.NewController(cfg, log, workflow.NewLLMClassifier(llm.New(cfg.LLM)), buildCollaborators(cfg, log))

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	fmt.Printf("Session: %s\n", sessionID)
	fmt.Println("Describe the short video you want to create (Ctrl-D to quit).")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		sess, err := sessions.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		for _, ev := range controller.Turn(ctx, sess, input) {
			printEvent(ev)
		}

		if err := sessions.Save(ctx, sess); err != nil {
			log.Error().Err(err).Msg("failed to save session")
		}
		if sess.Stage == types.StageDone {
			break
		}
	}
	return scanner.Err()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (store.SessionStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		return store.NewRedisStore(ctx, time.Duration(cfg.Session.TTLHours)*time.Hour)
	case "memory", "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func buildCollaborators(cfg *config.Config, log zerolog.Logger) workflow.Collaborators {
	client := llm.New(cfg.LLM)

	col := workflow.Collaborators{
		Theme:            theme.NewDefiner(client, log),
		ExpertResearcher: research.NewExpert(client, log),
		WebResearcher:    research.NewWeb(log),
		ResearchCompiler: research.NewCompiler(client, log),
		ScriptWriter:     script.NewWriter(client, cfg.Script, log),
		SceneBreakdown:   scenes.NewBreakdown(client, log),
		ImagePrompts:     prompts.NewImageGenerator(client, log),
		VideoPrompts:     prompts.NewVideoGenerator(client, log),
		Voiceover:        voiceover.NewGenerator(cfg.Voiceover, cfg.Assembly, log),
		Images:           images.NewGenerator(cfg.Images, cfg.Assembly, log),
		Videos:           videos.NewGenerator(cfg.Videos, cfg.Assembly, log),
		Assembler:        assemble.NewAssembler(cfg.Assembly, cfg.Images.Width, cfg.Images.Height, log),
		SEO:              seo.NewOptimizer(client, log),
	}
	if cfg.Upload.Enabled {
		col.Uploader = upload.NewUploader(cfg.Upload, log)
	}
	return col
}

func printEvent(ev types.Event) {
	switch ev.Kind {
	case types.EventError:
		fmt.Printf("!! %s\n", ev.Message)
	default:
		fmt.Printf("%s\n", ev.Message)
	}
}
