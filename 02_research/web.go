package research

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shortform-studio/types"
)

const maxHeadlines = 15

// Web gathers current headlines for the theme from the Google News RSS feed
// and turns them into a markdown report. A failed fetch degrades to a stub
// report instead of aborting the workflow: web research is supporting
// material, not a hard dependency.
type Web struct {
	httpClient *http.Client
	log        zerolog.Logger
}

func NewWeb(log zerolog.Logger) *Web {
	return &Web{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.With().Str("component", "research").Logger(),
	}
}

func (w *Web) Name() string      { return "WebResearcher" }
func (w *Web) OutputKey() string { return WebKey }

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Source  string `xml:"source"`
}

func (w *Web) Run(ctx context.Context, sess *types.WorkflowSession) error {
	theme, _ := sess.Artifacts.Text(types.KeyTheme)

	items, err := w.fetchHeadlines(ctx, theme)
	if err != nil {
		w.log.Warn().Err(err).Str("theme", theme).Msg("web research failed, continuing with stub report")
		sess.Artifacts.SetText(WebKey, fmt.Sprintf("No recent web coverage found for %q.", theme))
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Recent coverage: %s\n\n", theme)
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s", item.Title)
		if item.PubDate != "" {
			fmt.Fprintf(&sb, " (%s)", item.PubDate)
		}
		sb.WriteString("\n")
	}

	w.log.Info().Int("headlines", len(items)).Msg("web report ready")
	sess.Artifacts.SetText(WebKey, sb.String())
	return nil
}

func (w *Web) fetchHeadlines(ctx context.Context, theme string) ([]rssItem, error) {
	feedURL := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(theme),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ShortformStudio/1.0)")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from news feed", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse RSS: %w", err)
	}

	items := feed.Channel.Items
	if len(items) == 0 {
		return nil, fmt.Errorf("feed returned no items")
	}
	if len(items) > maxHeadlines {
		items = items[:maxHeadlines]
	}
	return items, nil
}
